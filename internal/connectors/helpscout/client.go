package helpscout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// maxErrorBody bounds how much of an error response is kept in APIError.
const maxErrorBody = 512

// Client performs authenticated, throttled GET requests against the API.
type Client struct {
	cfg           Config
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter

	mu   sync.Mutex
	http *http.Client
}

// NewClient creates a new Help Scout API client with a token provider.
func NewClient(cfg Config, tokenProvider driven.TokenProvider) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:           cfg,
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(cfg.RequestDelay, cfg.Cooldown),
	}
}

// ensureClient initialises the bearer-token HTTP client if not already done.
// The client asks the token provider for a token on every request, so a
// provider that refreshes expiring tokens keeps long runs authenticated.
func (c *Client) ensureClient(ctx context.Context) (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.http != nil {
		return c.http, nil
	}

	// Fail before the first request when no token can be obtained at all.
	if _, err := c.tokenProvider.GetToken(ctx); err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	// oauth2.NewClient would wrap the source in a ReuseTokenSource, which
	// holds an expiry-less token forever; the transport is built directly.
	c.http = &http.Client{
		Transport: &oauth2.Transport{
			// The client outlives ctx, so it must not inherit its cancellation.
			Source: &providerTokenSource{ctx: context.WithoutCancel(ctx), provider: c.tokenProvider},
			Base:   http.DefaultTransport,
		},
		Timeout: c.cfg.Timeout,
	}
	return c.http, nil
}

// providerTokenSource adapts a driven.TokenProvider to oauth2.TokenSource.
type providerTokenSource struct {
	ctx      context.Context
	provider driven.TokenProvider
}

// Token returns the provider's current bearer token.
func (s *providerTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.provider.GetToken(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// getJSON fetches path with query and decodes the response into out.
// A 429 response is retried after the cooldown at most cfg.MaxRetries times.
// Returns the number of retries performed.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) (int, error) {
	httpClient, err := c.ensureClient(ctx)
	if err != nil {
		return 0, err
	}

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	retries := 0
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return retries, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retries, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/hal+json")

		resp, err := httpClient.Do(req)
		if err != nil {
			return retries, fmt.Errorf("GET %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			drain(resp)
			wait := c.rateLimiter.RecordRateLimit(ParseRetryAfter(resp.Header.Get(HeaderRetryAfter), c.rateLimiter.now()))
			if retries >= c.cfg.MaxRetries {
				return retries, &RateLimitError{Attempts: retries + 1, RetryAfter: wait}
			}
			retries++
			logger.Warn("Rate limited on %s, retrying in %s (%d/%d)", path, wait, retries, c.cfg.MaxRetries)
			continue
		}

		err = decodeResponse(resp, out)
		return retries, err
	}
}

// decodeResponse closes resp after decoding a 200 body into out, or turning
// any other status into an APIError.
func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			URL:        resp.Request.URL.String(),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
