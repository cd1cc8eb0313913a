package helpscout

import (
	"strings"
	"time"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// Config holds the API settings used by the connector.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// RequestDelay is the minimum spacing between requests.
	RequestDelay time.Duration

	// Cooldown is the pause after a 429 without a Retry-After header.
	Cooldown time.Duration

	// MaxRetries bounds how often one request is repeated after a 429.
	MaxRetries int

	// ThreadConcurrency bounds parallel thread fetches within a page.
	ThreadConcurrency int

	// Status is the conversation status filter.
	Status string
}

// ConfigFromSettings extracts the connector configuration.
func ConfigFromSettings(s domain.APISettings) Config {
	cfg := Config{
		BaseURL:           s.BaseURL,
		Timeout:           s.Timeout,
		RequestDelay:      s.RequestDelay,
		Cooldown:          s.RateLimitCooldown,
		MaxRetries:        s.MaxRetries,
		ThreadConcurrency: s.ThreadConcurrency,
		Status:            s.Status,
	}
	return cfg.withDefaults()
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = domain.DefaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = domain.DefaultTimeout
	}
	if c.ThreadConcurrency < 1 {
		c.ThreadConcurrency = 1
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Status == "" {
		c.Status = domain.DefaultConversationState
	}
	return c
}
