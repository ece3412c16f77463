package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Portal.BaseURL != "https://www.banrep.gov.co" {
		t.Errorf("portal.base_url = %q", cfg.Portal.BaseURL)
	}
	if cfg.Portal.FilesURL == "" || cfg.Portal.ListingURL == "" {
		t.Error("portal URLs must have defaults")
	}
	if cfg.Resolver.Strategy != "auto" {
		t.Errorf("resolver.strategy = %q, want auto", cfg.Resolver.Strategy)
	}
	if cfg.Resolver.ProbeTimeoutSec <= 0 {
		t.Error("probe timeout must default to a positive value")
	}
	if cfg.Batch.Concurrency <= 0 {
		t.Error("batch concurrency must default to a positive value")
	}
	if cfg.API.Port == 0 {
		t.Error("api.port must have a default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
portal:
  base_url: https://portal.test
resolver:
  strategy: listing
  max_listing_pages: 9
batch:
  concurrency: 2
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Portal.BaseURL != "https://portal.test" {
		t.Errorf("portal.base_url = %q", cfg.Portal.BaseURL)
	}
	if cfg.Resolver.Strategy != "listing" {
		t.Errorf("resolver.strategy = %q", cfg.Resolver.Strategy)
	}
	if cfg.Resolver.MaxListingPages != 9 {
		t.Errorf("resolver.max_listing_pages = %d", cfg.Resolver.MaxListingPages)
	}
	// Unset keys keep their defaults.
	if cfg.Download.TimeoutSec <= 0 {
		t.Error("download.timeout_sec should keep its default")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("HAIRCUTS_RESOLVER_STRATEGY", "direct")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Resolver.Strategy != "direct" {
		t.Errorf("env override ignored: strategy = %q", cfg.Resolver.Strategy)
	}
}
