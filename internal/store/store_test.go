package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/GCLCMentor/CherryCourtTimer/internal/config"
	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

func sampleState() domain.GameState {
	return domain.GameState{
		TimeRemaining:  321,
		PeriodDuration: 10,
		CurrentPeriod:  2,
		TotalPeriods:   4,
		IsRunning:      true,
		ScoreLocal:     7,
		ScoreGuest:     3,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore("gameState")

	if _, err := s.Load(ctx); err != domain.ErrConfigMissing {
		t.Fatalf("expected ErrConfigMissing on empty store, got %v", err)
	}

	want := sampleState()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}
}

func TestMemoryStoreUnreadable(t *testing.T) {
	s := NewMemoryStore("gameState")
	s.SetRaw([]byte("{not json"))

	if _, err := s.Load(context.Background()); !errors.Is(err, domain.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested"), "gameState")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	if _, err := s.Load(ctx); err != domain.ErrConfigMissing {
		t.Fatalf("expected ErrConfigMissing on missing file, got %v", err)
	}

	want := sampleState()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Overwrite keeps only the latest record
	want.ScoreGuest = 4
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the state file, found %d entries", len(entries))
	}
}

func TestFileStoreUnreadable(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), "gameState")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte(`{"currentPeriod": 9, "totalPeriods": 2}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := s.Load(context.Background()); !errors.Is(err, domain.ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestDecodeUsesPersistedFieldNames(t *testing.T) {
	raw := []byte(`{"timeRemaining":5,"periodDuration":10,"currentPeriod":1,"totalPeriods":2,"isRunning":false,"scoreLocal":1,"scoreGuest":2}`)
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	want := domain.GameState{TimeRemaining: 5, PeriodDuration: 10, CurrentPeriod: 1, TotalPeriods: 2, ScoreLocal: 1, ScoreGuest: 2}
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: "memory", Key: "k"}, testLogger())
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", s)
	}

	s, err = Open(ctx, config.StoreConfig{Backend: "file", Key: "k", Dir: t.TempDir()}, testLogger())
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", s)
	}

	if _, err := Open(ctx, config.StoreConfig{Backend: "redis"}, testLogger()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
