// Package bay provides failure-bay store implementations.
package bay

import (
	"context"
	"sort"
	"sync"

	"anchor/internal/failure"
)

// MemoryStore keeps bays in process memory. Intended for tests and
// single-shot CLI runs; durable deployments use the postgres or redis store.
type MemoryStore struct {
	mu   sync.RWMutex
	bays map[string][]failure.Record
}

// NewMemory constructs an empty in-memory bay store.
func NewMemory() *MemoryStore {
	return &MemoryStore{bays: make(map[string][]failure.Record)}
}

func (s *MemoryStore) Append(_ context.Context, bay string, rec failure.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bays[bay] = append(s.bays[bay], rec)
	return nil
}

func (s *MemoryStore) List(_ context.Context, bay string, limit int) ([]failure.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.bays[bay]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	out := make([]failure.Record, len(records))
	copy(out, records)
	return out, nil
}

func (s *MemoryStore) Bays(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.bays))
	for name, records := range s.bays {
		if len(records) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Count(_ context.Context, bay string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bays[bay]), nil
}
