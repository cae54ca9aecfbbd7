package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_DefaultsFillUnsetFields(t *testing.T) {
	path := writeTemp(t, "backend: memory\nlisten: localhost:9090\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retry.MaxAttempts != Default().Retry.MaxAttempts {
		t.Errorf("expected default retry policy to survive, got %+v", cfg.Retry)
	}
	if cfg.Listen != "localhost:9090" {
		t.Errorf("expected overridden listen address, got %q", cfg.Listen)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	path := writeTemp(t, "backend: postgres\nlisten: localhost:9090\n")
	if _, err := Load(path); err == nil {
		t.Error("expected missing postgres.dsn to fail validation")
	}
}

func TestLoad_PostgresWithDSNSucceeds(t *testing.T) {
	path := writeTemp(t, "backend: postgres\nlisten: localhost:9090\npostgres:\n  dsn: postgres://localhost/db\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		t.Error("expected DSN to be populated")
	}
}

func TestLoad_UnknownBackendRejected(t *testing.T) {
	path := writeTemp(t, "backend: sqlite\nlisten: localhost:9090\n")
	if _, err := Load(path); err == nil {
		t.Error("expected unknown backend to fail validation")
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected reading a nonexistent file to error")
	}
}
