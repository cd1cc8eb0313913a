package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Default settings values.
const (
	DefaultBatchLimit        = 500
	DefaultBaseURL           = "https://api.helpscout.net/v2"
	DefaultTokenURL          = "https://api.helpscout.net/v2/oauth2/token"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestDelay      = 200 * time.Millisecond
	DefaultRateLimitCooldown = 10 * time.Second
	DefaultMaxRetries        = 5
	DefaultThreadConcurrency = 1
	DefaultConversationState = "all"
	DefaultArchiveDir        = "archive"
	DefaultIndexPath         = "index.json"
	DefaultStateDir          = ".hsarchive"
	DefaultPageCheckpoint    = "last_page.txt"
	DefaultWindowCheckpoint  = "sync_window.txt"
)

// Settings is the explicit configuration object for a deployment.
// It is built once at startup and passed to constructors.
type Settings struct {
	Sync        SyncSettings
	API         APISettings
	Credentials Credentials
	Paths       PathSettings
	Metrics     MetricsSettings
}

// SyncSettings controls the cursor strategy and the batch governor.
type SyncSettings struct {
	// Strategy selects page or window cursors.
	Strategy Strategy

	// BatchLimit is the maximum number of pages processed per invocation.
	BatchLimit int

	// MaxDuration is an optional wall-clock budget per invocation. Zero disables it.
	MaxDuration time.Duration

	// WindowFloor is the earliest month walked in window mode. When the cursor
	// moves past it the history counts as exhausted. Zero means no floor.
	WindowFloor Month
}

// APISettings configures the source API client.
type APISettings struct {
	BaseURL           string
	TokenURL          string
	Timeout           time.Duration
	RequestDelay      time.Duration
	RateLimitCooldown time.Duration
	MaxRetries        int
	ThreadConcurrency int

	// Status is the conversation status filter sent with list requests.
	Status string
}

// Credentials are the client-credentials pair, or a pre-issued access token.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
}

// IsConfigured returns true if either a token or a full client pair is set.
func (c Credentials) IsConfigured() bool {
	return c.AccessToken != "" || (c.ClientID != "" && c.ClientSecret != "")
}

// PathSettings locates on-disk artifacts.
type PathSettings struct {
	Archive    string
	Index      string
	Checkpoint string
	State      string
}

// MetricsSettings configures run metrics export.
type MetricsSettings struct {
	// Textfile is a node-exporter textfile path written after each run. Empty disables it.
	Textfile string
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		Sync: SyncSettings{
			Strategy:   StrategyPage,
			BatchLimit: DefaultBatchLimit,
		},
		API: APISettings{
			BaseURL:           DefaultBaseURL,
			TokenURL:          DefaultTokenURL,
			Timeout:           DefaultTimeout,
			RequestDelay:      DefaultRequestDelay,
			RateLimitCooldown: DefaultRateLimitCooldown,
			MaxRetries:        DefaultMaxRetries,
			ThreadConcurrency: DefaultThreadConcurrency,
			Status:            DefaultConversationState,
		},
		Paths: PathSettings{
			Archive: DefaultArchiveDir,
			Index:   DefaultIndexPath,
			State:   DefaultStateDir,
		},
	}
}

// CheckpointPath returns the configured checkpoint file, or the strategy default.
func (s Settings) CheckpointPath() string {
	if s.Paths.Checkpoint != "" {
		return s.Paths.Checkpoint
	}
	if s.Sync.Strategy == StrategyWindow {
		return DefaultWindowCheckpoint
	}
	return DefaultPageCheckpoint
}

// Validate checks the settings are usable. Credentials are not checked here;
// a missing credential is an authentication failure at run time.
func (s Settings) Validate() error {
	var errs []error
	if !s.Sync.Strategy.IsValid() {
		errs = append(errs, fmt.Errorf("sync.strategy %q must be %q or %q",
			s.Sync.Strategy, StrategyPage, StrategyWindow))
	}
	if s.Sync.BatchLimit < 1 {
		errs = append(errs, fmt.Errorf("sync.batch_limit must be at least 1, got %d", s.Sync.BatchLimit))
	}
	if s.Sync.MaxDuration < 0 {
		errs = append(errs, errors.New("sync.max_duration must not be negative"))
	}
	if s.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if s.API.TokenURL == "" && s.Credentials.AccessToken == "" {
		errs = append(errs, errors.New("api.token_url is required"))
	}
	if s.API.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("api.max_retries must not be negative, got %d", s.API.MaxRetries))
	}
	if s.API.ThreadConcurrency < 1 {
		errs = append(errs, fmt.Errorf("api.thread_concurrency must be at least 1, got %d", s.API.ThreadConcurrency))
	}
	if s.API.RequestDelay < 0 || s.API.RateLimitCooldown < 0 || s.API.Timeout < 0 {
		errs = append(errs, errors.New("api durations must not be negative"))
	}
	if s.Paths.Archive == "" {
		errs = append(errs, errors.New("paths.archive is required"))
	}
	if s.Paths.Index == "" {
		errs = append(errs, errors.New("paths.index is required"))
	}
	if s.Paths.Archive != "" && s.Paths.Index != "" && pathWithin(s.Paths.Archive, s.Paths.Index) {
		errs = append(errs, fmt.Errorf("paths.index %q must not be inside paths.archive %q",
			s.Paths.Index, s.Paths.Archive))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// pathWithin reports whether path is root or lies below it.
func pathWithin(root, path string) bool {
	root, path = absPath(root), absPath(path)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
