package repository

import (
	"context"
	"sync"
)

type memoryStateStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStateStore() StateStore {
	return &memoryStateStore{entries: make(map[string][]byte)}
}

func (s *memoryStateStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memoryStateStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key], nil
}

func (s *memoryStateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
