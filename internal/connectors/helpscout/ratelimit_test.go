package helpscout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 10*time.Second, ParseRetryAfter("10", now))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("", now))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("-3", now))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("soon", now))
	assert.Equal(t, 30*time.Second, ParseRetryAfter("Mon, 01 Jan 2024 12:00:30 GMT", now))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("Mon, 01 Jan 2024 11:00:00 GMT", now))
}

func TestRateLimiter_RecordRateLimit(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(0, 10*time.Second)
	r.now = func() time.Time { return now }

	assert.Equal(t, 10*time.Second, r.RecordRateLimit(0), "default cooldown")
	assert.Equal(t, now.Add(10*time.Second), r.RetryAt())

	assert.Equal(t, 3*time.Second, r.RecordRateLimit(3*time.Second))
	assert.Equal(t, now.Add(10*time.Second), r.RetryAt(), "a shorter cooldown never shortens the current one")
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	r := NewRateLimiter(0, time.Hour)
	r.RecordRateLimit(0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := r.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestRateLimiter_Throttles(t *testing.T) {
	r := NewRateLimiter(20*time.Millisecond, time.Second)

	start := time.Now()
	for range 3 {
		require.NoError(t, r.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := (Config{BaseURL: "https://example.test/v2///", MaxRetries: -1}).withDefaults()

	assert.Equal(t, "https://example.test/v2", cfg.BaseURL)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, 1, cfg.ThreadConcurrency)
	assert.Equal(t, "all", cfg.Status)
	assert.Positive(t, cfg.Timeout)
}
