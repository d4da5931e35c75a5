package kv

import (
	"context"
	"sync"

	"github.com/medikart/storefront/internal/port"
)

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory returns a process-local KV store. Used in tests and as a
// fallback when no durable backend is configured.
func NewMemory() port.KV {
	return &memoryStore{entries: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
