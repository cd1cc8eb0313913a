package helpscout

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// RateLimiter spaces requests by a fixed delay and holds every request back
// while a rate-limit cooldown is in effect.
type RateLimiter struct {
	mu       sync.Mutex
	bucket   *rate.Limiter
	retryAt  time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing one request per delay.
// A zero delay disables throttling.
func NewRateLimiter(delay, cooldown time.Duration) *RateLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &RateLimiter{
		bucket:   rate.NewLimiter(limit, 1),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Wait blocks until a request may be sent: first any cooldown set by
// RecordRateLimit, then the throttle.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := retryAt.Sub(r.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.bucket.Wait(ctx)
}

// RecordRateLimit starts a cooldown after a 429 response and returns its
// length. retryAfter <= 0 uses the configured cooldown.
func (r *RateLimiter) RecordRateLimit(retryAfter time.Duration) time.Duration {
	if retryAfter <= 0 {
		retryAfter = r.cooldown
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := r.now().Add(retryAfter); until.After(r.retryAt) {
		r.retryAt = until
	}
	return retryAfter
}

// RetryAt returns when the current cooldown ends.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}

// ParseRetryAfter reads a Retry-After header value. Returns 0 when the
// header is absent or unparsable.
func ParseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
