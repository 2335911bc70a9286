package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.URLTemplate == "" {
		t.Error("default search url template should be set")
	}
	if cfg.Build.BatchSize <= 0 {
		t.Error("default batch size should be positive")
	}
	if cfg.Build.CatalogTTL.Duration != time.Hour {
		t.Errorf("default catalog ttl = %v, want 1h", cfg.Build.CatalogTTL.Duration)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default addr = %q, want :8080", cfg.Server.Addr)
	}
	if len(cfg.Types) == 0 {
		t.Error("default package types should be set")
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Addr != DefaultConfig().Server.Addr {
		t.Error("empty path should return defaults")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packdex.toml")
	content := `
[server]
addr = ":9090"

[build]
batch_size = 25
catalog_ttl = "30m"

[redis]
addr = "localhost:6379"

[[types]]
name = "custom"
query = 'g:"org.example"'
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Build.BatchSize != 25 {
		t.Errorf("batch size = %d, want 25", cfg.Build.BatchSize)
	}
	if cfg.Build.CatalogTTL.Duration != 30*time.Minute {
		t.Errorf("catalog ttl = %v, want 30m", cfg.Build.CatalogTTL.Duration)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}

	// Unset sections keep their defaults.
	if cfg.Search.URLTemplate != DefaultConfig().Search.URLTemplate {
		t.Error("unset search section should keep defaults")
	}

	if len(cfg.Types) != 1 || cfg.Types[0].Name != "custom" {
		t.Errorf("types = %+v, want the configured custom type", cfg.Types)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/does/not/exist.toml"); err == nil {
		t.Error("LoadConfig with a missing file should fail")
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packdex.toml")
	if err := os.WriteFile(path, []byte("[build]\ncatalog_ttl = \"soon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig with an invalid duration should fail")
	}
}
