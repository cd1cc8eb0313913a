package domain

import "time"

// SyncOutcome is the terminal state of a sync invocation.
type SyncOutcome string

// Terminal outcomes.
const (
	// OutcomeDone means the run completed, whether history was exhausted or
	// the batch limit was reached.
	OutcomeDone SyncOutcome = "done"

	// OutcomeAuthFailed means no token could be obtained. Nothing was fetched.
	OutcomeAuthFailed SyncOutcome = "auth_failed"

	// OutcomeFetchFailed means a page fetch failed. Progress up to the last
	// saved checkpoint is preserved.
	OutcomeFetchFailed SyncOutcome = "fetch_failed"

	// OutcomeStorageFailed means the archive, checkpoint or index could not be
	// written. The checkpoint is left at its last durable value.
	OutcomeStorageFailed SyncOutcome = "storage_failed"
)

// IsFatal reports whether the outcome should produce a non-zero exit.
func (o SyncOutcome) IsFatal() bool {
	return o != OutcomeDone
}

// StopReason records why a successful run stopped fetching.
type StopReason string

// Stop reasons.
const (
	// StopNone is used for runs that failed before fetching finished.
	StopNone StopReason = ""

	// StopExhausted means the source signalled the end of history.
	StopExhausted StopReason = "exhausted"

	// StopBatchLimit means the batch governor suspended the run. The next
	// invocation resumes from the saved checkpoint.
	StopBatchLimit StopReason = "batch_limit"
)

// SyncReport describes one sync invocation.
type SyncReport struct {
	RunID    string
	Strategy Strategy

	StartedAt  time.Time
	FinishedAt time.Time

	Outcome    SyncOutcome
	StopReason StopReason

	// StartCursor and EndCursor are persisted cursor forms. EndCursor is empty
	// when the checkpoint was reset after exhaustion.
	StartCursor string
	EndCursor   string

	Pages            int
	Records          int
	Skipped          int
	ThreadFallbacks  int
	RateLimitRetries int

	// Index is nil when the run failed before the index was rebuilt.
	Index *IndexReport

	// Error is the fatal error message, if any.
	Error string
}

// Duration returns how long the run took.
func (r *SyncReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
