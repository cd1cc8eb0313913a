package driven

import (
	"context"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// CheckpointStore persists the sync cursor between invocations.
// The stored cursor always names the next unit of work to attempt.
type CheckpointStore interface {
	// Load returns the stored cursor and true, or the start cursor and false
	// when nothing is stored. An unparsable checkpoint wraps domain.ErrInvalidCursor.
	Load(ctx context.Context) (domain.Cursor, bool, error)

	// Save durably replaces the stored cursor.
	Save(ctx context.Context, cursor domain.Cursor) error

	// Reset removes the stored cursor. Resetting an absent checkpoint is not an error.
	Reset(ctx context.Context) error

	// Location describes where the checkpoint lives, for display.
	Location() string
}
