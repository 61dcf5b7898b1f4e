package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SOUCEY_CONFIG", "")
	t.Setenv("SOUCEY_HTTP_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %s, want :8080", cfg.HTTPAddr)
	}
	if cfg.CartWarningBuffer != 100 {
		t.Errorf("CartWarningBuffer = %d, want 100", cfg.CartWarningBuffer)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soucey.yaml")
	data := []byte("http_addr: \":9090\"\nredis_addr: \"redis:6379\"\nshutdown_timeout: 10s\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SOUCEY_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %s, want :9090", cfg.HTTPAddr)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Errorf("RedisAddr = %s, want redis:6379", cfg.RedisAddr)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	// file does not touch unrelated defaults
	if cfg.MySQLDSN != Default().MySQLDSN {
		t.Errorf("MySQLDSN changed unexpectedly: %s", cfg.MySQLDSN)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soucey.yaml")
	if err := os.WriteFile(path, []byte("http_addr: \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SOUCEY_CONFIG", path)
	t.Setenv("SOUCEY_HTTP_ADDR", ":7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Errorf("env should win over file, got %s", cfg.HTTPAddr)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("SOUCEY_SHUTDOWN_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("expected an error for a bad duration")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("SOUCEY_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
