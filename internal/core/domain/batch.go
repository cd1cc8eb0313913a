package domain

// Batch is one page of records produced by a fetcher.
type Batch struct {
	// Cursor is the position that produced this batch.
	Cursor Cursor

	// Next is the next unit of work once this batch is archived.
	Next Cursor

	// Records are the decoded records, threads attached.
	Records []*Record

	// Skipped counts payload entries that could not be decoded.
	Skipped int

	// ThreadFallbacks counts records whose thread history could not be
	// fetched and was replaced by an empty list.
	ThreadFallbacks int

	// RateLimitRetries counts requests repeated after a rate-limit response.
	RateLimitRetries int
}
