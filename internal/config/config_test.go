package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NEWSDESK_CONFIG", "")
	t.Setenv("NEWSDESK_ADDR", "")
	t.Setenv("NEWSDESK_PG_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %s", cfg.Server.Addr)
	}
	if cfg.RateLimit.Burst != 50 || cfg.RateLimit.PerSecond != 25 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Audit.RecordDenied {
		t.Fatal("denied auditing must default to off")
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newsdesk.yaml")
	data := []byte(`
server:
  addr: ":9090"
  read_timeout: 5s
database:
  dsn: "postgres://file"
audit:
  record_denied: true
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NEWSDESK_CONFIG", path)
	t.Setenv("NEWSDESK_ADDR", "")
	t.Setenv("NEWSDESK_PG_DSN", "postgres://env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected file addr, got %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("expected 5s read timeout, got %s", cfg.Server.ReadTimeout)
	}
	// env beats the file
	if cfg.Database.DSN != "postgres://env" {
		t.Fatalf("expected env DSN to win, got %s", cfg.Database.DSN)
	}
	if !cfg.Audit.RecordDenied {
		t.Fatal("expected record_denied from file")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("NEWSDESK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for a named but missing config file")
	}
}
