package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate default config: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config file, got exists for %s", resolved)
	}
	if cfg.Backend.BaseURL != defaultBaseURL {
		t.Fatalf("unexpected base url: %q", cfg.Backend.BaseURL)
	}
	if cfg.Watch.PortStatusInterval != defaultPortStatusInterval {
		t.Fatalf("unexpected port status interval: %d", cfg.Watch.PortStatusInterval)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[backend]
base_url = "venue.example.com:9000/"
request_timeout = 30

[watch]
queue_interval = 15
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Backend.BaseURL != "http://venue.example.com:9000" {
		t.Fatalf("expected scheme prefix and trimmed slash, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.RequestTimeout != 30 {
		t.Fatalf("unexpected request timeout: %d", cfg.Backend.RequestTimeout)
	}
	if cfg.Watch.QueueInterval != 15 {
		t.Fatalf("unexpected queue interval: %d", cfg.Watch.QueueInterval)
	}
}

func TestLoadRejectsBadWatchInterval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[watch]
queue_interval = 300
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error for out-of-range interval")
	}
}

func TestEnvOverrideBaseURL(t *testing.T) {
	t.Setenv("VENUECTL_BASE_URL", "https://venue.example.com")
	cfg, _, _, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.BaseURL != "https://venue.example.com" {
		t.Fatalf("env override not applied: %q", cfg.Backend.BaseURL)
	}
}

func TestCreateSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[backend]") {
		t.Fatal("sample config missing backend section")
	}
	if err := CreateSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
}
