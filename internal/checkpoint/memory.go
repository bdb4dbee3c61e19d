package checkpoint

import (
	"context"
	"sync"
)

// MemoryStore is an in-process checkpoint store
type MemoryStore struct {
	mu   sync.Mutex
	runs map[string]map[int]struct{}
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]map[int]struct{})}
}

func (s *MemoryStore) IsDone(_ context.Context, runID string, wineID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runs[runID][wineID]
	return ok, nil
}

func (s *MemoryStore) MarkDone(_ context.Context, runID string, wineID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs[runID] == nil {
		s.runs[runID] = make(map[int]struct{})
	}
	s.runs[runID][wineID] = struct{}{}
	return nil
}

func (s *MemoryStore) Count(_ context.Context, runID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.runs[runID])), nil
}

func (s *MemoryStore) Clear(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
	return nil
}
