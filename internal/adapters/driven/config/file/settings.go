package file

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Environment variables holding secrets.
const (
	EnvClientID     = "HS_APP_ID"
	EnvClientSecret = "HS_APP_SECRET"
	EnvAccessToken  = "HS_ACCESS_TOKEN"
)

// Env looks up an environment variable.
type Env func(key string) (string, bool)

// ProcessEnv returns the process environment, falling back to the variables
// in dotenvPath. The process environment always wins. A missing .env file is
// not an error; the process environment itself is never modified.
func ProcessEnv(dotenvPath string) (Env, error) {
	dotenv := map[string]string{}
	if dotenvPath != "" {
		vars, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			dotenv = vars
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// MapEnv returns an Env backed by a map.
func MapEnv(vars map[string]string) Env {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// LoadSettings builds validated settings from the config store and the environment.
// Keys missing from the store keep their defaults.
func LoadSettings(store driven.ConfigStore, env Env) (domain.Settings, error) {
	s := domain.DefaultSettings()
	var errs []error

	if v := store.GetString("sync.strategy"); v != "" {
		s.Sync.Strategy = domain.Strategy(strings.ToLower(strings.TrimSpace(v)))
	}
	readInt(store, "sync.batch_limit", &s.Sync.BatchLimit, &errs)
	readDuration(store, "sync.max_duration", &s.Sync.MaxDuration, &errs)
	if v := store.GetString("sync.window_floor"); v != "" {
		floor, err := domain.ParseMonth(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("sync.window_floor: %q is not a YYYY-MM month", v))
		} else {
			s.Sync.WindowFloor = floor
		}
	}

	readString(store, "api.base_url", &s.API.BaseURL)
	readString(store, "api.token_url", &s.API.TokenURL)
	readString(store, "api.status", &s.API.Status)
	readDuration(store, "api.timeout", &s.API.Timeout, &errs)
	readDuration(store, "api.request_delay", &s.API.RequestDelay, &errs)
	readDuration(store, "api.rate_limit_cooldown", &s.API.RateLimitCooldown, &errs)
	readInt(store, "api.max_retries", &s.API.MaxRetries, &errs)
	readInt(store, "api.thread_concurrency", &s.API.ThreadConcurrency, &errs)

	readString(store, "paths.archive", &s.Paths.Archive)
	readString(store, "paths.index", &s.Paths.Index)
	readString(store, "paths.checkpoint", &s.Paths.Checkpoint)
	readString(store, "paths.state", &s.Paths.State)
	readString(store, "metrics.textfile", &s.Metrics.Textfile)

	if env != nil {
		s.Credentials.ClientID, _ = env(EnvClientID)
		s.Credentials.ClientSecret, _ = env(EnvClientSecret)
		s.Credentials.AccessToken, _ = env(EnvAccessToken)
	}

	if len(errs) > 0 {
		return s, fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func readString(store driven.ConfigStore, key string, dst *string) {
	if v := strings.TrimSpace(store.GetString(key)); v != "" {
		*dst = v
	}
}

func readInt(store driven.ConfigStore, key string, dst *int, errs *[]error) {
	val, ok := store.Get(key)
	if !ok {
		return
	}
	switch v := val.(type) {
	case int64:
		*dst = int(v)
	case int:
		*dst = v
	default:
		*errs = append(*errs, fmt.Errorf("%s: expected an integer, got %v", key, val))
	}
}

// readDuration accepts a Go duration string ("1h30m") or an integer number of seconds.
func readDuration(store driven.ConfigStore, key string, dst *time.Duration, errs *[]error) {
	val, ok := store.Get(key)
	if !ok {
		return
	}
	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	case int64:
		*dst = time.Duration(v) * time.Second
	case int:
		*dst = time.Duration(v) * time.Second
	default:
		*errs = append(*errs, fmt.Errorf("%s: expected a duration, got %v", key, val))
	}
}
