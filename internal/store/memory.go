package store

import (
	"context"
	"sync"

	"github.com/i474232898/geoflix/internal/recommend"
)

// MemoryStore is a concurrency-safe in-memory log. Contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []recommend.Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds r to the end of the log.
func (s *MemoryStore) Append(_ context.Context, r recommend.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
	return nil
}

// All returns a copy of the log in insertion order.
func (s *MemoryStore) All(_ context.Context) ([]recommend.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recommend.Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
