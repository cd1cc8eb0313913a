// Package app wires the hsarchive adapters and services together for the CLI.
package app

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driven/auth"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driven/config/file"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driven/metrics"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driven/storage/disk"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/helpscout-archive/internal/adapters/driving/cli"
	"github.com/custodia-labs/helpscout-archive/internal/connectors/helpscout"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
	"github.com/custodia-labs/helpscout-archive/internal/core/services"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// DotenvFile is read from the config file's directory for credentials.
const DotenvFile = ".env"

// New loads configuration from configPath and builds the services every
// command uses. Missing credentials do not fail here; a sync reports them
// as an authentication failure instead.
func New(configPath string) (*cli.Services, error) {
	config, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	env, err := file.ProcessEnv(filepath.Join(filepath.Dir(config.Path()), DotenvFile))
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	settings, err := file.LoadSettings(config, env)
	if err != nil {
		return nil, err
	}

	return Wire(settings, config)
}

// Wire builds services from already-loaded settings.
func Wire(settings domain.Settings, config cli.ConfigEditor) (*cli.Services, error) {
	tokens, err := auth.NewTokenProvider(settings.Credentials, settings.API)
	if err != nil {
		logger.Debug("no usable credentials: %v", err)
		tokens = auth.NewUnconfiguredTokenProvider(err)
	}

	client := helpscout.NewClient(helpscout.ConfigFromSettings(settings.API), tokens)
	fetcher := helpscout.NewFetcher(client)

	archive := disk.NewArchiveStore(settings.Paths.Archive)
	checkpoints := disk.NewCheckpointStore(settings.CheckpointPath(), settings.Sync.Strategy)
	index := disk.NewIndexStore(settings.Paths.Index)
	recorder := metrics.NewRecorder(settings.Metrics.Textfile)

	// The run ledger is optional: without it syncs still work, history is empty.
	var runs driven.RunStore
	closeFn := func() error { return nil }
	store, err := sqlite.NewStore(settings.Paths.State)
	if err != nil {
		logger.Warn("run history disabled: %v", err)
	} else {
		runs = store
		closeFn = store.Close
	}

	indexer := services.NewIndexService(archive, index, recorder)
	orchestrator := services.NewSyncOrchestrator(
		settings.Sync, tokens, fetcher, archive, checkpoints, indexer, runs, recorder,
	)

	return &cli.Services{
		Settings: settings,
		Sync:     orchestrator,
		Index:    indexer,
		Config:   config,
		Close:    closeFn,
	}, nil
}

// OpenConfig opens the config file for editing without validating it.
func OpenConfig(configPath string) (cli.ConfigEditor, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return store, nil
}
