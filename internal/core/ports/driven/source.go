package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// RecordSource fetches records from the remote API.
type RecordSource interface {
	// Batches returns a lazy, finite sequence of batches starting at from.
	// The sequence ends without an error when the source is exhausted.
	// A page-level failure is yielded once, wrapping domain.ErrFetchFailed,
	// and ends the sequence. Breaking out of the range stops fetching.
	Batches(ctx context.Context, from domain.Cursor) iter.Seq2[domain.Batch, error]
}
