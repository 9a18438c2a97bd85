package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Download.Workers != DefaultWorkers {
		t.Errorf("Expected %d workers, got %d", DefaultWorkers, cfg.Download.Workers)
	}
	if cfg.Download.Timeout != DefaultTimeout {
		t.Errorf("Expected timeout %v, got %v", DefaultTimeout, cfg.Download.Timeout)
	}
	if cfg.Resolver.Runtime != "node" {
		t.Errorf("Expected node runtime, got %q", cfg.Resolver.Runtime)
	}
	if cfg.Store.SQLitePath == "" {
		t.Error("sqlite path should have a default")
	}
	if !cfg.Resolver.Cache {
		t.Error("resolution cache should be on by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
download:
  dir: /demos
  workers: 20
  max_workers: 6
  timeout: 45s
resolver:
  runtime: /usr/bin/node
  timeout: 5s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Download.Dir != "/demos" {
		t.Errorf("Expected /demos, got %q", cfg.Download.Dir)
	}
	if cfg.Download.Workers != 6 {
		t.Errorf("workers should be clamped to max_workers, got %d", cfg.Download.Workers)
	}
	if cfg.Download.Timeout != 45*time.Second {
		t.Errorf("Expected 45s timeout, got %v", cfg.Download.Timeout)
	}
	if cfg.Resolver.Timeout != 5*time.Second {
		t.Errorf("Expected 5s resolver timeout, got %v", cfg.Resolver.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Log.Level)
	}
	// untouched keys keep their defaults
	if cfg.Resolver.Script != "dist/index.js" {
		t.Errorf("Expected default script, got %q", cfg.Resolver.Script)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GODEMO_PORT", "9100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("Expected env override 9100, got %q", cfg.Port)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config path")
	}
}
