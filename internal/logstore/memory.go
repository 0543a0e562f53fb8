package logstore

import (
	"context"
	"sync"

	"aegis/internal/models"
)

// MemoryStore keeps the encoded log in memory. Used for --ephemeral runs and tests.
type MemoryStore struct {
	mu     sync.Mutex
	value  []byte
	closed bool
	saves  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a store pre-populated with a raw stored value.
func NewMemoryStoreWith(raw []byte) *MemoryStore {
	return &MemoryStore{value: append([]byte(nil), raw...)}
}

func (s *MemoryStore) Load(ctx context.Context) ([]models.LogEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, ErrClosed
	}
	if s.value == nil {
		return nil, false, nil
	}
	entries, err := Decode(s.value)
	return entries, true, err
}

func (s *MemoryStore) Save(ctx context.Context, entries []models.LogEntry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.value = data
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
