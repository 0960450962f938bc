package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// FileStore keeps the record as <dir>/<key>.json. Writes go to a temporary
// file that is renamed over the target, so readers in other processes see
// either the old or the new record.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file store, creating dir if needed
func NewFileStore(dir, key string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the file the record is stored in
func (f *FileStore) Path() string {
	return f.path
}

// Load implements Store
func (f *FileStore) Load(ctx context.Context) (domain.GameState, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.GameState{}, domain.ErrConfigMissing
	}
	if err != nil {
		return domain.GameState{}, fmt.Errorf("%w: %v", domain.ErrUnreadable, err)
	}
	return Decode(raw)
}

// Save implements Store
func (f *FileStore) Save(ctx context.Context, state domain.GameState) error {
	raw, err := Encode(state)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Close implements Store
func (f *FileStore) Close() error {
	return nil
}
