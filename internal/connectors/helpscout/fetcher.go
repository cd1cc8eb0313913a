package helpscout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.RecordSource = (*Fetcher)(nil)

// Fetcher streams conversation batches from the API.
type Fetcher struct {
	client      *Client
	concurrency int
}

// NewFetcher creates a fetcher over client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{
		client:      client,
		concurrency: client.cfg.ThreadConcurrency,
	}
}

// Batches returns a lazy sequence of batches starting at from.
//
// Page cursors end at the first empty page. Window cursors never end on
// their own: an empty or fully read month yields a batch whose Next is the
// previous month, and the caller decides when to stop.
func (f *Fetcher) Batches(ctx context.Context, from domain.Cursor) iter.Seq2[domain.Batch, error] {
	return func(yield func(domain.Batch, error) bool) {
		cursor := from
		for {
			batch, done, err := f.fetch(ctx, cursor)
			if err != nil {
				yield(domain.Batch{Cursor: cursor}, err)
				return
			}
			if done {
				logger.Debug("Reached the end of history at %s", cursor.Label())
				return
			}
			if !yield(batch, nil) {
				return
			}
			cursor = batch.Next
		}
	}
}

// fetch retrieves one page and its threads. done reports an exhausted page cursor.
func (f *Fetcher) fetch(ctx context.Context, cursor domain.Cursor) (domain.Batch, bool, error) {
	batch := domain.Batch{Cursor: cursor}

	if err := ctx.Err(); err != nil {
		return batch, false, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	page, err := f.client.ListConversations(ctx, cursor)
	if err != nil {
		return batch, false, pageError(err)
	}
	batch.RateLimitRetries = page.RateLimitRetries

	if len(page.Conversations) == 0 {
		if cursor.Strategy != domain.StrategyWindow {
			return batch, true, nil
		}
		batch.Next = cursor.PrevWindow()
		return batch, false, nil
	}

	batch.Records, batch.Skipped = decodeConversations(page.Conversations)
	fallbacks, retries := f.attachThreads(ctx, batch.Records)
	batch.ThreadFallbacks = fallbacks
	batch.RateLimitRetries += retries

	// Threads substituted because ctx ended must not be archived as empty.
	if err := ctx.Err(); err != nil {
		return batch, false, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	batch.Next = nextCursor(cursor, page.TotalPages)
	return batch, false, nil
}

// nextCursor advances within a window until its last page, then moves to the previous month.
func nextCursor(cursor domain.Cursor, totalPages int) domain.Cursor {
	if cursor.Strategy == domain.StrategyWindow && cursor.Page >= totalPages {
		return cursor.PrevWindow()
	}
	return cursor.NextPage()
}

// decodeConversations decodes each payload independently, skipping any that
// cannot be archived.
func decodeConversations(raw []json.RawMessage) ([]*domain.Record, int) {
	records := make([]*domain.Record, 0, len(raw))
	skipped := 0
	for i, data := range raw {
		rec, err := domain.DecodeRecord(data)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			logger.Warn("Skipping conversation %d of page: %v", i, err)
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped
}

// attachThreads fetches every record's threads with bounded concurrency.
// A failed fetch attaches an empty list and counts as a fallback.
func (f *Fetcher) attachThreads(ctx context.Context, records []*domain.Record) (int, int) {
	var fallbacks, retries atomic.Int64

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for _, rec := range records {
		g.Go(func() error {
			threads, n, err := f.client.ListThreads(ctx, rec.ID)
			retries.Add(int64(n))
			if err != nil {
				logger.Warn("Thread history for conversation %s unavailable: %v", rec.ID, err)
				fallbacks.Add(1)
				threads = nil
			}
			rec.SetThreads(threads)
			return nil
		})
	}
	_ = g.Wait()

	return int(fallbacks.Load()), int(retries.Load())
}

// pageError classifies a page-level failure.
func pageError(err error) error {
	switch {
	case IsUnauthorized(err):
		return fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
	case errors.Is(err, domain.ErrAuthFailed):
		return err
	case IsRateLimited(err):
		return fmt.Errorf("%w: %w: %w", domain.ErrFetchFailed, domain.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
}
