package driven

import (
	"context"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// IndexStore persists the flat lookup index.
type IndexStore interface {
	// Replace atomically replaces the whole index.
	Replace(ctx context.Context, entries []domain.IndexEntry) error

	// Load returns every entry. Returns domain.ErrNotFound if no index has been built.
	Load(ctx context.Context) ([]domain.IndexEntry, error)

	// Location describes where the index lives, for display.
	Location() string
}
