package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator runs one resumable sync per invocation:
//
//	Authenticate -> LoadCheckpoint -> {FetchPage -> ProcessBatch -> SaveCheckpoint}*
//	  -> (Exhausted | BatchLimitReached) -> RebuildIndex -> Done
//
// The checkpoint is saved only after every record of the unit it covers has
// been written, so a run killed at any point resumes without skipping work.
type SyncOrchestrator struct {
	settings    domain.SyncSettings
	tokens      driven.TokenProvider
	source      driven.RecordSource
	archive     driven.ArchiveStore
	checkpoints driven.CheckpointStore
	indexer     driving.IndexService
	runs        driven.RunStore
	metrics     driven.SyncMetrics

	now   func() time.Time
	newID func() string

	// Status tracking
	mu     sync.RWMutex
	status *driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
// runs and metrics are optional - if nil, runs are neither recorded nor measured.
func NewSyncOrchestrator(
	settings domain.SyncSettings,
	tokens driven.TokenProvider,
	source driven.RecordSource,
	archive driven.ArchiveStore,
	checkpoints driven.CheckpointStore,
	indexer driving.IndexService,
	runs driven.RunStore,
	metrics driven.SyncMetrics,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		settings:    settings,
		tokens:      tokens,
		source:      source,
		archive:     archive,
		checkpoints: checkpoints,
		indexer:     indexer,
		runs:        runs,
		metrics:     metrics,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Run performs one sync invocation.
//
//nolint:gocognit,gocyclo // State machine with sequential steps
func (o *SyncOrchestrator) Run(ctx context.Context, progress driving.ProgressFunc) (*domain.SyncReport, error) {
	report := &domain.SyncReport{
		RunID:     o.newID(),
		Strategy:  o.settings.Strategy,
		StartedAt: o.now(),
	}
	if !o.begin(report.RunID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.end()
	defer o.finish(ctx, report)

	logger.Section("Sync")

	// 1. Authenticate. Nothing is fetched or written on failure.
	if _, err := o.tokens.GetToken(ctx); err != nil {
		return report, o.fail(report, domain.OutcomeAuthFailed, err)
	}

	// 2. Load checkpoint
	cursor, found, err := o.checkpoints.Load(ctx)
	if err != nil {
		return report, o.fail(report, domain.OutcomeStorageFailed, fmt.Errorf("load checkpoint: %w", err))
	}
	report.StartCursor = cursor.String()
	if found {
		logger.Info("Resuming from %s", cursor.Label())
	} else {
		logger.Info("No checkpoint, starting at %s", cursor.Label())
	}

	// 3. Fetch and archive until exhausted or the governor stops the run
	governor := NewBatchGovernor(o.settings.BatchLimit, o.settings.MaxDuration)
	governor.now = o.now
	governor.Start()

	stop := domain.StopExhausted
	o.updateStatus(func(s *driving.SyncStatus) { s.Cursor = cursor })

	for batch, err := range o.source.Batches(ctx, cursor) {
		if err != nil {
			outcome := domain.OutcomeFetchFailed
			if errors.Is(err, domain.ErrAuthFailed) {
				outcome = domain.OutcomeAuthFailed
			}
			report.EndCursor = cursor.String()
			return report, o.fail(report, outcome, fmt.Errorf("fetch %s: %w", batch.Cursor.Label(), err))
		}

		if err := o.archiveBatch(ctx, &batch); err != nil {
			report.EndCursor = cursor.String()
			return report, o.fail(report, domain.OutcomeStorageFailed, err)
		}

		report.Pages++
		report.Records += len(batch.Records)
		report.Skipped += batch.Skipped
		report.ThreadFallbacks += batch.ThreadFallbacks
		report.RateLimitRetries += batch.RateLimitRetries
		if o.metrics != nil {
			o.metrics.ObserveBatch(&batch)
		}
		governor.Record()

		next := batch.Next
		o.updateStatus(func(s *driving.SyncStatus) {
			s.Cursor = next
			s.Pages = report.Pages
			s.RecordsArchived = report.Records
			s.Skipped = report.Skipped
		})
		logger.Info("Archived %s: %d records", batch.Cursor.Label(), len(batch.Records))
		if progress != nil {
			progress(driving.PageProgress{
				Cursor:       batch.Cursor,
				Records:      len(batch.Records),
				Skipped:      batch.Skipped,
				Pages:        report.Pages,
				TotalRecords: report.Records,
			})
		}

		if o.pastFloor(next) {
			logger.Info("Reached window floor %s", o.settings.WindowFloor)
			break
		}

		// Window cursors are persisted per month, so mid-month positions are
		// neither saved nor a valid place to stop.
		if !next.AtBoundary() {
			continue
		}
		if err := o.checkpoints.Save(ctx, next); err != nil {
			report.EndCursor = cursor.String()
			return report, o.fail(report, domain.OutcomeStorageFailed,
				fmt.Errorf("%w: save checkpoint: %w", domain.ErrStorage, err))
		}
		cursor = next

		if governor.Exhausted() {
			stop = domain.StopBatchLimit
			break
		}
	}

	// 4. Exhausted history resets the cursor for the next cycle
	if stop == domain.StopExhausted {
		if err := o.checkpoints.Reset(ctx); err != nil {
			report.EndCursor = cursor.String()
			return report, o.fail(report, domain.OutcomeStorageFailed,
				fmt.Errorf("%w: reset checkpoint: %w", domain.ErrStorage, err))
		}
		logger.Info("History exhausted, checkpoint reset")
	} else {
		report.EndCursor = cursor.String()
		logger.Info("Batch limit reached after %d pages, next run resumes at %s", governor.Units(), cursor.Label())
	}
	report.StopReason = stop

	// 5. Rebuild index
	indexReport, err := o.indexer.Rebuild(ctx)
	if err != nil {
		return report, o.fail(report, domain.OutcomeStorageFailed, err)
	}
	report.Index = indexReport
	report.Outcome = domain.OutcomeDone

	logger.Info("Sync complete: %d pages, %d records, %d skipped", report.Pages, report.Records, report.Skipped)
	return report, nil
}

// archiveBatch writes every record of a batch under its partition key.
func (o *SyncOrchestrator) archiveBatch(ctx context.Context, batch *domain.Batch) error {
	for _, rec := range batch.Records {
		path, err := o.archive.Write(ctx, rec, domain.PartitionKey(rec))
		if err != nil {
			return fmt.Errorf("%w: archive record %s: %w", domain.ErrStorage, rec.ID, err)
		}
		logger.Debug("Wrote %s", path)
	}
	return nil
}

// pastFloor reports whether a window cursor has moved before the configured floor.
func (o *SyncOrchestrator) pastFloor(next domain.Cursor) bool {
	floor := o.settings.WindowFloor
	return next.Strategy == domain.StrategyWindow && !floor.IsZero() && next.Month.Before(floor)
}

// fail marks the report with a fatal outcome and returns the error.
func (o *SyncOrchestrator) fail(report *domain.SyncReport, outcome domain.SyncOutcome, err error) error {
	report.Outcome = outcome
	report.Error = err.Error()
	logger.Error("Sync %s: %v", outcome, err)
	return err
}

// finish stamps the report and records it. Ledger failures never change the outcome.
func (o *SyncOrchestrator) finish(ctx context.Context, report *domain.SyncReport) {
	report.FinishedAt = o.now()
	if o.metrics != nil {
		o.metrics.ObserveRun(report)
	}
	if o.runs != nil {
		if err := o.runs.Record(context.WithoutCancel(ctx), report); err != nil {
			logger.Warn("Failed to record run %s: %v", report.RunID, err)
		}
	}
}

// Status returns the progress of the current run.
func (o *SyncOrchestrator) Status() *driving.SyncStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.status == nil {
		return &driving.SyncStatus{Running: false}
	}
	// Return a copy to avoid race conditions
	status := *o.status
	return &status
}

// History returns recent runs, newest first.
func (o *SyncOrchestrator) History(ctx context.Context, limit int) ([]domain.SyncReport, error) {
	if o.runs == nil {
		return []domain.SyncReport{}, nil
	}
	return o.runs.List(ctx, limit)
}

// Checkpoint returns the stored cursor.
func (o *SyncOrchestrator) Checkpoint(ctx context.Context) (domain.Cursor, bool, error) {
	return o.checkpoints.Load(ctx)
}

// ResetCheckpoint removes the stored cursor. Refused while a run is active.
func (o *SyncOrchestrator) ResetCheckpoint(ctx context.Context) error {
	if o.Status().Running {
		return domain.ErrSyncInProgress
	}
	return o.checkpoints.Reset(ctx)
}

func (o *SyncOrchestrator) begin(runID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil && o.status.Running {
		return false
	}
	o.status = &driving.SyncStatus{RunID: runID, Running: true}
	return true
}

func (o *SyncOrchestrator) end() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil {
		o.status.Running = false
	}
}

func (o *SyncOrchestrator) updateStatus(fn func(*driving.SyncStatus)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status != nil {
		fn(o.status)
	}
}
