package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCursor indicates a stored checkpoint could not be parsed.
	// The checkpoint is left untouched so an operator can inspect it.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Run-level failures. Each maps to a terminal SyncOutcome.

	// ErrAuthFailed indicates the bearer token could not be obtained.
	// Nothing has been fetched, so no state is mutated.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrFetchFailed indicates a page could not be retrieved.
	// Progress up to the last saved checkpoint is preserved.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrStorage indicates the archive, checkpoint or index could not be written.
	ErrStorage = errors.New("storage failure")

	// Recoverable failures.

	// ErrRateLimited indicates the API rate limit was exceeded and retries ran out.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnreadableEntry indicates a single archived file could not be read or parsed.
	// Index rebuilds skip such files.
	ErrUnreadableEntry = errors.New("unreadable archive entry")
)
