package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rundispatch/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	incoming := filepath.Join(tempHome, "incoming")
	path := writeConfig(t, `
[paths]
scan_roots = ["`+incoming+`"]
public_dir = "~/public"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, path)
	}
	if len(cfg.Paths.ScanRoots) != 1 || cfg.Paths.ScanRoots[0] != incoming {
		t.Fatalf("unexpected scan roots: %v", cfg.Paths.ScanRoots)
	}
	if cfg.Paths.PublicDir != filepath.Join(tempHome, "public") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.PublicDir)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, ".local", "share", "rundispatch") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Mail.RetentionDays != 14 {
		t.Fatalf("expected default retention of 14 days, got %d", cfg.Mail.RetentionDays)
	}
	if !cfg.Mail.AppendDefaultRecipients {
		t.Fatal("expected default recipients appended by default")
	}
	if cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected default smtp port: %d", cfg.SMTP.Port)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Logging.RetentionDays != 60 {
		t.Fatalf("expected default log retention of 60 days, got %d", cfg.Logging.RetentionDays)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadSMTPPasswordFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RUNDISPATCH_SMTP_PASSWORD", "hunter2")

	path := writeConfig(t, `
[paths]
scan_roots = ["/data/incoming"]
public_dir = "/srv/public"

[smtp]
host = "smtp.example.org"
from = "Core Facility <seq@example.org>"
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SMTP.Password != "hunter2" {
		t.Fatalf("expected password from env, got %q", cfg.SMTP.Password)
	}
}

func TestLoadKeepsZeroRetention(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
[paths]
scan_roots = ["/data/incoming"]
public_dir = "/srv/public"

[mail]
retention_days = 0

[logging]
retention_days = 0
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Mail.RetentionDays != 0 {
		t.Fatalf("explicit retention_days = 0 was overridden to %d", cfg.Mail.RetentionDays)
	}
	if cfg.Logging.RetentionDays != 0 {
		t.Fatalf("explicit logging retention_days = 0 was overridden to %d", cfg.Logging.RetentionDays)
	}
}

func TestLoadClampsNegativeLogRetention(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
[paths]
scan_roots = ["/data/incoming"]
public_dir = "/srv/public"

[logging]
retention_days = -5
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.RetentionDays != 0 {
		t.Fatalf("expected negative log retention clamped to 0, got %d", cfg.Logging.RetentionDays)
	}
}

func TestLoadFailsForMissingExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	missing := filepath.Join(t.TempDir(), "nope.toml")

	_, _, _, err := config.Load(missing)
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected config-not-found error, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), missing) {
		t.Fatalf("expected error to name the missing path, got %v", err)
	}
}

func TestLoadRejectsMissingScanRoots(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
[paths]
public_dir = "/srv/public"
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "scan_roots") {
		t.Fatalf("expected scan_roots validation error, got %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad port",
			body: "[paths]\nscan_roots=[\"/data\"]\npublic_dir=\"/srv\"\n[smtp]\nport=700000\n",
			want: "smtp.port",
		},
		{
			name: "bad recipient",
			body: "[paths]\nscan_roots=[\"/data\"]\npublic_dir=\"/srv\"\n[mail]\ndefault_recipients=[\"not-an-address\"]\n",
			want: "default_recipients",
		},
		{
			name: "bad url",
			body: "[paths]\nscan_roots=[\"/data\"]\npublic_dir=\"/srv\"\n[mail]\ndownload_base_url=\"downloads.example.org\"\n",
			want: "download_base_url",
		},
		{
			name: "bad log format",
			body: "[paths]\nscan_roots=[\"/data\"]\npublic_dir=\"/srv\"\n[logging]\nformat=\"yaml\"\n",
			want: "logging.format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[smtp]") {
		t.Fatal("expected sample to contain an smtp section")
	}
}
