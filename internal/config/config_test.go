package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, ConfigDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigDir, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	ResetCache()
	t.Cleanup(ResetCache)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("CITEFMT_MAILTO", "")
	t.Setenv("CITEFMT_API_URL", "")
	ResetCache()
	t.Cleanup(ResetCache)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxParallel != DefaultMaxParallel {
		t.Errorf("MaxParallel = %d", cfg.MaxParallel)
	}
	if cfg.Timeout() != time.Duration(DefaultTimeoutSeconds)*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
	if cfg.CacheTTL() != time.Duration(DefaultCacheTTLDays)*24*time.Hour {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL())
	}
}

func TestLoadFromFile(t *testing.T) {
	writeConfig(t, "crossref_mailto: me@example.org\nmax_parallel: 8\ntimeout_seconds: 5\ncache_ttl_days: 7\n")
	t.Setenv("CITEFMT_MAILTO", "")
	t.Setenv("CITEFMT_API_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CrossRefMailto != "me@example.org" {
		t.Errorf("CrossRefMailto = %q", cfg.CrossRefMailto)
	}
	if cfg.MaxParallel != 8 || cfg.TimeoutSeconds != 5 || cfg.CacheTTLDays != 7 {
		t.Errorf("loaded values = %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfig(t, "crossref_mailto: file@example.org\ncrossref_api_url: https://file.example.org\n")
	t.Setenv("CITEFMT_MAILTO", "env@example.org")
	t.Setenv("CITEFMT_API_URL", "https://env.example.org")
	ResetCache()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CrossRefMailto != "env@example.org" {
		t.Errorf("CrossRefMailto = %q, env must win", cfg.CrossRefMailto)
	}
	if cfg.CrossRefAPIURL != "https://env.example.org" {
		t.Errorf("CrossRefAPIURL = %q, env must win", cfg.CrossRefAPIURL)
	}
}

func TestCachePathRespectsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	want := filepath.Join(dir, ConfigDir, CacheFile)
	if got := CachePath(); got != want {
		t.Errorf("CachePath = %q, want %q", got, want)
	}
}
