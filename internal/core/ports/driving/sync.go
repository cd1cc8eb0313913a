package driving

import (
	"context"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// SyncOrchestrator runs resumable archive syncs.
type SyncOrchestrator interface {
	// Run performs one sync invocation: fetch from the checkpoint until the
	// source is exhausted or the batch governor stops the run, then rebuild
	// the index. The report is returned even when the run fails.
	// progress, when not nil, is called after every archived page.
	Run(ctx context.Context, progress ProgressFunc) (*domain.SyncReport, error)

	// Status returns the progress of the current run.
	Status() *SyncStatus

	// History returns recent runs, newest first. Returns an empty list when
	// no run ledger is configured.
	History(ctx context.Context, limit int) ([]domain.SyncReport, error)

	// Checkpoint returns the stored cursor, and false when none is stored.
	Checkpoint(ctx context.Context) (domain.Cursor, bool, error)

	// ResetCheckpoint removes the stored cursor so the next run starts over.
	ResetCheckpoint(ctx context.Context) error
}

// SyncStatus represents the current state of a sync operation.
type SyncStatus struct {
	// RunID identifies the run.
	RunID string

	// Running indicates if sync is currently in progress.
	Running bool

	// Cursor is the position being fetched.
	Cursor domain.Cursor

	// Pages is the number of pages archived so far.
	Pages int

	// RecordsArchived is the count of records written.
	RecordsArchived int

	// Skipped is the count of payload entries that could not be decoded.
	Skipped int
}

// PageProgress describes one archived page.
type PageProgress struct {
	// Cursor is the page that was archived.
	Cursor domain.Cursor

	// Records is the number of records written from this page.
	Records int

	// Skipped is the number of entries on this page that could not be decoded.
	Skipped int

	// Pages and TotalRecords are the run's running totals.
	Pages        int
	TotalRecords int
}

// ProgressFunc receives one PageProgress per archived page, on the
// goroutine running the sync.
type ProgressFunc func(PageProgress)
