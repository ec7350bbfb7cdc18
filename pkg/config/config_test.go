package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Feed.CacheTTL != 60*time.Second {
		t.Errorf("CacheTTL = %v, want 60s", cfg.Feed.CacheTTL)
	}
	if cfg.Feed.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Feed.MaxAttempts)
	}
	if cfg.Feed.BackoffBase != 500*time.Millisecond {
		t.Errorf("BackoffBase = %v, want 500ms", cfg.Feed.BackoffBase)
	}
	if cfg.Feed.DefaultMode != "basic" {
		t.Errorf("DefaultMode = %q, want basic", cfg.Feed.DefaultMode)
	}
	if cfg.Feed.OracleBackend != "postgres" {
		t.Errorf("OracleBackend = %q, want postgres", cfg.Feed.OracleBackend)
	}
}

func TestLoad_MissingDatabasePassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing database password")
	}
}

func TestLoad_RPCBackendRequiresURL(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("ORACLE_BACKEND", "rpc")
	t.Setenv("ORACLE_RPC_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for rpc backend without url")
	}
}

func TestLoad_FeedFileOverlayAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feed.yaml")
	content := "feed:\n  cache_ttl: 30s\n  max_attempts: 5\n  default_mode: personalized\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEED_CONFIG_FILE", path)
	t.Setenv("FEED_MAX_ATTEMPTS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Feed.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s from file", cfg.Feed.CacheTTL)
	}
	if cfg.Feed.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2 from env", cfg.Feed.MaxAttempts)
	}
	if cfg.Feed.DefaultMode != "personalized" {
		t.Errorf("DefaultMode = %q, want personalized from file", cfg.Feed.DefaultMode)
	}
}

func TestLoad_RejectsUnknownMode(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("FEED_DEFAULT_MODE", "clever")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown default mode")
	}
}

func TestLoad_OracleTimeoutMustFitRequest(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.OracleTimeout != 4*time.Second || cfg.Feed.FallbackTimeout != 3*time.Second {
		t.Errorf("timeouts = %v/%v, want 4s/3s", cfg.Feed.OracleTimeout, cfg.Feed.FallbackTimeout)
	}

	t.Setenv("FEED_ORACLE_TIMEOUT", "5s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when the oracle timeout uses the whole request budget")
	}
}
