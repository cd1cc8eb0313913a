package driven

import (
	"context"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// RunStore is the ledger of sync invocations.
type RunStore interface {
	// Record appends a finished run.
	Record(ctx context.Context, report *domain.SyncReport) error

	// List returns the most recent runs, newest first. limit <= 0 returns all.
	List(ctx context.Context, limit int) ([]domain.SyncReport, error)
}
