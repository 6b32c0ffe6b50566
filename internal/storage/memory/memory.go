package memory

import (
	"bytes"
	"context"
	"sync"

	"trade-checker-go/internal/storage"
)

// Store implements storage.SlotStore with an in-process map. Used for tests
// and throwaway sessions; nothing survives the process.
type Store struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	closed bool
}

// New creates an empty in-memory slot store.
func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, storage.ErrClosed
	}
	v, ok := s.slots[name]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (s *Store) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	s.slots[name] = bytes.Clone(data)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ storage.SlotStore = (*Store)(nil)
