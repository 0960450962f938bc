package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// unsetEnv clears keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "PORT", "ENV", "STORE_BACKEND", "STORE_KEY")

	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Store.Backend != "file" {
		t.Fatalf("expected file backend by default, got %s", cfg.Store.Backend)
	}
	if cfg.Store.Key != "gameState" {
		t.Fatalf("expected key gameState, got %s", cfg.Store.Key)
	}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development env by default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	unsetEnv(t, "HOST")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "nats")
	t.Setenv("BOARD_POLL_INTERVAL", "2s")
	t.Setenv("DB_PORT", "not-a-number")

	cfg := Load()
	if cfg.GetAddr() != "0.0.0.0:9090" {
		t.Fatalf("unexpected addr %s", cfg.GetAddr())
	}
	if cfg.Store.Backend != "nats" {
		t.Fatalf("expected nats backend, got %s", cfg.Store.Backend)
	}
	if cfg.Board.PollInterval != 2*time.Second {
		t.Fatalf("expected 2s poll interval, got %s", cfg.Board.PollInterval)
	}
	if cfg.Store.Postgres.Port != 5432 {
		t.Fatalf("invalid DB_PORT should fall back to 5432, got %d", cfg.Store.Postgres.Port)
	}
}

func TestPostgresDSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	want := "postgres://u:p@db:5433/d?sslmode=disable"
	if got := c.DSN(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestLoadSetup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("period_duration: 12\ntotal_periods: 4\n"), 0o644); err != nil {
		t.Fatalf("write setup: %v", err)
	}

	setup, err := LoadSetup(path)
	if err != nil {
		t.Fatalf("should load setup: %v", err)
	}
	if setup.PeriodDuration != 12 || setup.TotalPeriods != 4 {
		t.Fatalf("unexpected setup %+v", setup)
	}
}

func TestLoadSetupRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("period_duration: 0\ntotal_periods: 4\n"), 0o644); err != nil {
		t.Fatalf("write setup: %v", err)
	}

	if _, err := LoadSetup(path); !errors.Is(err, domain.ErrInvalidSetup) {
		t.Fatalf("expected ErrInvalidSetup, got %v", err)
	}
}
