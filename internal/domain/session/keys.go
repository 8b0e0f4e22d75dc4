package session

import (
	"context"
	"sync"
)

// Persister stores the session key group of a tab. Save replaces the whole
// group atomically; Load returns an empty map when nothing is stored.
type Persister interface {
	Save(ctx context.Context, tabID string, values map[string]string) error
	Load(ctx context.Context, tabID string) (map[string]string, error)
	Remove(ctx context.Context, tabID string) error
}

// MemoryKeyStore is the process-local Persister used when no database is configured.
type MemoryKeyStore struct {
	mu sync.RWMutex
	m  map[string]map[string]string
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{m: make(map[string]map[string]string)}
}

func (s *MemoryKeyStore) Save(_ context.Context, tabID string, values map[string]string) error {
	group := make(map[string]string, len(values))
	for k, v := range values {
		group[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[tabID] = group
	return nil
}

func (s *MemoryKeyStore) Load(_ context.Context, tabID string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.m[tabID]))
	for k, v := range s.m[tabID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryKeyStore) Remove(_ context.Context, tabID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, tabID)
	return nil
}
