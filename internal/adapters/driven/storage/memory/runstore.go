package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory run ledger.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.SyncReport
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Record appends a run.
func (s *RunStore) Record(_ context.Context, report *domain.SyncReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *report)
	return nil
}

// List returns runs newest first.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.SyncReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.runs)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []domain.SyncReport{}
	}
	return out, nil
}
