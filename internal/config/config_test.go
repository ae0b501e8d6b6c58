package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Mode != "release" {
		t.Errorf("mode = %q, want release", cfg.Mode)
	}
	if cfg.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Port)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("allowed_origin = %q, want *", cfg.AllowedOrigin)
	}
	if cfg.ReadLimit != 32768 {
		t.Errorf("read_limit = %d, want 32768", cfg.ReadLimit)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Errorf("poll_interval = %v, want 5m", cfg.PollInterval)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "mode: debug\nport: 9000\n")
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "debug" || cfg.Port != 9000 {
		t.Errorf("cfg = %+v, want mode debug, port 9000", cfg)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("unset keys must keep defaults, allowed_origin = %q", cfg.AllowedOrigin)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "read_limit: [not, a, number]\n")
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable config")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
