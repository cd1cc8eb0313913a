package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu      sync.RWMutex
	entries []domain.IndexEntry
	built   bool
}

// NewIndexStore creates a new in-memory index store with no index built.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Replace swaps the whole index.
func (s *IndexStore) Replace(_ context.Context, entries []domain.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = slices.Clone(entries)
	s.built = true
	return nil
}

// Load returns every entry.
func (s *IndexStore) Load(_ context.Context) ([]domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.built {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(s.entries), nil
}

// Location describes the store.
func (s *IndexStore) Location() string {
	return "memory"
}
