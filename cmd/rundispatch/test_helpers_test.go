package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	configPath string
	scanRoot   string
	publicDir  string
	baseDir    string
}

// setupCLITestEnv writes a config file plus one dispatchable run folder in
// the modern layout.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	scanRoot := filepath.Join(base, "incoming")
	publicDir := filepath.Join(base, "public")
	stateDir := filepath.Join(base, "state")
	logDir := filepath.Join(base, "logs")
	for _, dir := range []string{scanRoot, publicDir, stateDir, logDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\nscan_roots = [%q]\npublic_dir = %q\nstate_dir = %q\nlog_dir = %q\n",
		scanRoot, publicDir, stateDir, logDir,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		configPath: configPath,
		scanRoot:   scanRoot,
		publicDir:  publicDir,
		baseDir:    base,
	}
}

// addRun creates a run folder with one fastq file and returns the run id.
func (env *cliTestEnv) addRun(t *testing.T, runID string) {
	t.Helper()
	fastqDir := filepath.Join(env.scanRoot, runID, runID, "Alignment_1", "20240101_120000", "Fastq")
	if err := os.MkdirAll(fastqDir, 0o755); err != nil {
		t.Fatalf("mkdir fastq dir: %v", err)
	}
	reads := filepath.Join(fastqDir, "sample_R1.fastq.gz")
	if err := os.WriteFile(reads, []byte("reads"), 0o644); err != nil {
		t.Fatalf("write reads: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}
