package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings_Valid(t *testing.T) {
	s := DefaultSettings()

	assert.NoError(t, s.Validate())
	assert.Equal(t, StrategyPage, s.Sync.Strategy)
	assert.Equal(t, 500, s.Sync.BatchLimit)
	assert.Equal(t, 10*time.Second, s.API.RateLimitCooldown)
	assert.Equal(t, 200*time.Millisecond, s.API.RequestDelay)
	assert.Equal(t, "archive", s.Paths.Archive)
	assert.Equal(t, "index.json", s.Paths.Index)
}

func TestSettings_CheckpointPath(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "last_page.txt", s.CheckpointPath())

	s.Sync.Strategy = StrategyWindow
	assert.Equal(t, "sync_window.txt", s.CheckpointPath())

	s.Paths.Checkpoint = "state/cursor"
	assert.Equal(t, "state/cursor", s.CheckpointPath())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantMsg string
	}{
		{name: "bad strategy", mutate: func(s *Settings) { s.Sync.Strategy = "daily" }, wantMsg: "sync.strategy"},
		{name: "zero batch limit", mutate: func(s *Settings) { s.Sync.BatchLimit = 0 }, wantMsg: "sync.batch_limit"},
		{name: "negative duration", mutate: func(s *Settings) { s.Sync.MaxDuration = -time.Second }, wantMsg: "sync.max_duration"},
		{name: "no base url", mutate: func(s *Settings) { s.API.BaseURL = "" }, wantMsg: "api.base_url"},
		{name: "no token url", mutate: func(s *Settings) { s.API.TokenURL = "" }, wantMsg: "api.token_url"},
		{name: "negative retries", mutate: func(s *Settings) { s.API.MaxRetries = -1 }, wantMsg: "api.max_retries"},
		{name: "zero concurrency", mutate: func(s *Settings) { s.API.ThreadConcurrency = 0 }, wantMsg: "api.thread_concurrency"},
		{name: "negative delay", mutate: func(s *Settings) { s.API.RequestDelay = -1 }, wantMsg: "api durations"},
		{name: "no archive", mutate: func(s *Settings) { s.Paths.Archive = "" }, wantMsg: "paths.archive"},
		{name: "no index", mutate: func(s *Settings) { s.Paths.Index = "" }, wantMsg: "paths.index"},
		{name: "index inside archive", mutate: func(s *Settings) { s.Paths.Index = "archive/index.json" }, wantMsg: "must not be inside paths.archive"},
		{name: "index nested deeper", mutate: func(s *Settings) { s.Paths.Index = "./archive/Acme/../index.json" }, wantMsg: "must not be inside paths.archive"},
		{name: "index is the archive", mutate: func(s *Settings) { s.Paths.Index = "archive/" }, wantMsg: "must not be inside paths.archive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)

			err := s.Validate()
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSettings_TokenURLOptionalWithStaticToken(t *testing.T) {
	s := DefaultSettings()
	s.API.TokenURL = ""
	s.Credentials.AccessToken = "preissued"

	assert.NoError(t, s.Validate())
}

func TestCredentials_IsConfigured(t *testing.T) {
	assert.False(t, Credentials{}.IsConfigured())
	assert.False(t, Credentials{ClientID: "id"}.IsConfigured())
	assert.True(t, Credentials{ClientID: "id", ClientSecret: "secret"}.IsConfigured())
	assert.True(t, Credentials{AccessToken: "tok"}.IsConfigured())
}

func TestSettings_IndexBesideArchive(t *testing.T) {
	for _, index := range []string{"index.json", "archive-index.json", "../archive/index.json", "/srv/hs/index.json"} {
		s := DefaultSettings()
		s.Paths.Index = index
		assert.NoError(t, s.Validate(), index)
	}

	s := DefaultSettings()
	s.Paths.Archive = "/srv/hs/archive"
	s.Paths.Index = "/srv/hs/archive/index.json"
	assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
}
