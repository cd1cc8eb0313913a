// Package helpscout implements the record source for the Help Scout
// Mailbox API v2.
//
// # Architecture
//
// The connector implements [driven.RecordSource]. It comprises the following
// components:
//
//   - Fetcher: turns a cursor into a lazy sequence of batches
//   - Client: handles API communication, throttling and 429 retries
//   - RateLimiter: fixed inter-request delay plus a shared cooldown
//   - Config: API settings taken from the application settings
//
// # Pagination
//
// Page cursors list every conversation sorted by creation time, oldest first,
// and end at the first empty page. Window cursors restrict the list to one
// calendar month with a createdAt range query; a month is complete when its
// last page (page.totalPages) has been read, after which the cursor moves to
// the previous month.
//
// # Threads
//
// Each conversation's thread history is fetched from
// /conversations/{id}/threads and attached under "full_threads". A thread
// fetch that fails for any reason is replaced by an empty list so one bad
// conversation never fails its page. Thread fetches may run in parallel
// (api.thread_concurrency); all of a page's fetches finish before the batch
// is yielded.
//
// # Rate Limits
//
// Every request waits for the throttle (api.request_delay, default 200ms).
// A 429 response pauses all requests for the Retry-After interval, or
// api.rate_limit_cooldown when absent, and the request is retried at most
// api.max_retries times.
package helpscout
