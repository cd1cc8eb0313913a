package driving

import (
	"context"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// IndexService builds and queries the flat lookup index.
type IndexService interface {
	// Rebuild scans the whole archive and replaces the index.
	Rebuild(ctx context.Context) (*domain.IndexReport, error)

	// Lookup returns the entry for a record ID.
	// Returns domain.ErrNotFound if the ID is not indexed.
	Lookup(ctx context.Context, id string) (*domain.IndexEntry, error)

	// Find returns entries matching every set filter field.
	Find(ctx context.Context, filter domain.IndexFilter) ([]domain.IndexEntry, error)
}
