package storage

import (
	"context"
	"fmt"
	"sync"
)

type memStore struct {
	values map[string]string
	mu     sync.RWMutex
}

// NewMemStore creates an ephemeral in-memory Store. Values do not survive
// process restart; intended for tests and for running without a storage
// path configured.
func NewMemStore() Store {
	return &memStore{values: make(map[string]string)}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
