package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelqueue/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "abc123"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected resolved existing path %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Plex.MoviesSection != "Movies" || cfg.Plex.TVSection != "TV Shows" {
		t.Fatalf("expected default section names, got %+v", cfg.Plex)
	}
	if cfg.Reconciler.IntervalSeconds != 60 {
		t.Fatalf("expected default interval 60, got %d", cfg.Reconciler.IntervalSeconds)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("data dir should be absolute, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadTrimsPlexURL(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400/"
token = " abc123 "
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Plex.URL != "http://plex.local:32400" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.Plex.URL)
	}
	if cfg.Plex.Token != "abc123" {
		t.Fatalf("token should be trimmed, got %q", cfg.Plex.Token)
	}
}

func TestLoadRequiresPlexURL(t *testing.T) {
	t.Setenv("PLEX_URL", "")
	t.Setenv("PLEX_TOKEN", "")
	path := writeConfig(t, `
[plex]
token = "abc123"
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "plex.url is required") {
		t.Fatalf("expected plex.url error, got %v", err)
	}
}

func TestLoadReadsEnvCredentials(t *testing.T) {
	t.Setenv("PLEX_URL", "http://env.plex:32400")
	t.Setenv("PLEX_TOKEN", "env-token")
	path := writeConfig(t, "")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Plex.URL != "http://env.plex:32400" || cfg.Plex.Token != "env-token" {
		t.Fatalf("expected env credentials, got %+v", cfg.Plex)
	}
}

func TestValidateRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "abc123"

[reconciler]
interval_seconds = 0
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "interval_seconds") {
		t.Fatalf("expected interval validation error, got %v", err)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, `
[plex]
url = "http://plex.local:32400"
token = "abc123"

[logging]
format = "yaml"
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected log format error, got %v", err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
