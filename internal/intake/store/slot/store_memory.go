// Package slot provides slot-row store implementations.
package slot

import (
	"context"
	"sync"

	"anchor/internal/domain"
)

// MemoryStore keeps slot rows in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[domain.RowID]domain.SlotRow
}

// NewMemory constructs an empty in-memory row store.
func NewMemory() *MemoryStore {
	return &MemoryStore{rows: make(map[domain.RowID]domain.SlotRow)}
}

func (s *MemoryStore) Save(_ context.Context, row *domain.SlotRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.ID] = *row
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id domain.RowID) (*domain.SlotRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row, ok := s.rows[id]; ok {
		return &row, nil
	}
	return nil, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*domain.SlotRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.SlotRow, 0, len(s.rows))
	for _, row := range s.rows {
		row := row
		out = append(out, &row)
	}
	return out, nil
}

func (s *MemoryStore) PreviousHashes(_ context.Context) (map[domain.RowID]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hashes := make(map[domain.RowID]string, len(s.rows))
	for id, row := range s.rows {
		if row.MovementHash != "" {
			hashes[id] = row.MovementHash
		}
	}
	return hashes, nil
}
