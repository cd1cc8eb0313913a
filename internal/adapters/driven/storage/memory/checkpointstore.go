package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore is an in-memory implementation of driven.CheckpointStore.
type CheckpointStore struct {
	mu       sync.RWMutex
	strategy domain.Strategy
	now      func() time.Time
	cursor   *domain.Cursor
	saves    []domain.Cursor
	resets   int
}

// NewCheckpointStore creates a new in-memory checkpoint store.
func NewCheckpointStore(strategy domain.Strategy, now func() time.Time) *CheckpointStore {
	if now == nil {
		now = time.Now
	}
	return &CheckpointStore{strategy: strategy, now: now}
}

// Load returns the stored cursor, or the start cursor when none is stored.
func (s *CheckpointStore) Load(_ context.Context) (domain.Cursor, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cursor == nil {
		return domain.StartCursor(s.strategy, s.now()), false, nil
	}
	return *s.cursor, true, nil
}

// Save replaces the stored cursor.
func (s *CheckpointStore) Save(_ context.Context, cursor domain.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = &cursor
	s.saves = append(s.saves, cursor)
	return nil
}

// Reset removes the stored cursor.
func (s *CheckpointStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = nil
	s.resets++
	return nil
}

// Location describes the store.
func (s *CheckpointStore) Location() string {
	return "memory"
}

// Saves returns every cursor saved so far, in order.
func (s *CheckpointStore) Saves() []domain.Cursor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Cursor, len(s.saves))
	copy(out, s.saves)
	return out
}

// Resets returns how many times the checkpoint was reset.
func (s *CheckpointStore) Resets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resets
}
