package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber the file.
	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err == nil {
		t.Fatal("expected init to refuse overwriting an existing file")
	}
}

func TestConfigShowMasksPassword(t *testing.T) {
	env := setupCLITestEnv(t)

	config := env.configPath
	body, err := os.ReadFile(config)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	body = append(body, []byte("\n[smtp]\nhost = \"mail.example.org\"\nfrom = \"noreply@example.org\"\npassword = \"hunter2\"\n")...)
	if err := os.WriteFile(config, body, 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	out, _, err := runCLI(t, []string{"config", "show"}, config)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "mail.example.org")
	requireContains(t, out, "********")
	if strings.Contains(out, "hunter2") {
		t.Fatalf("config show leaked the password:\n%s", out)
	}
}
