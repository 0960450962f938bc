package store

import (
	"context"
	"sync"

	"github.com/GCLCMentor/CherryCourtTimer/internal/domain"
)

// MemoryStore keeps records in process memory. Values are kept encoded so
// Load behaves like every other backend.
type MemoryStore struct {
	key  string
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(key string) *MemoryStore {
	return &MemoryStore{
		key:  key,
		data: make(map[string][]byte),
	}
}

// Load implements Store
func (m *MemoryStore) Load(ctx context.Context) (domain.GameState, error) {
	m.mu.RLock()
	raw, ok := m.data[m.key]
	m.mu.RUnlock()

	if !ok {
		return domain.GameState{}, domain.ErrConfigMissing
	}
	return Decode(raw)
}

// Save implements Store
func (m *MemoryStore) Save(ctx context.Context, state domain.GameState) error {
	raw, err := Encode(state)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key] = raw
	return nil
}

// SetRaw stores an arbitrary value under the key
func (m *MemoryStore) SetRaw(raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key] = raw
}

// Close implements Store
func (m *MemoryStore) Close() error {
	return nil
}
