package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService rebuilds the lookup index from the archive and answers lookups.
type IndexService struct {
	archive driven.ArchiveReader
	index   driven.IndexStore
	metrics driven.SyncMetrics
}

// NewIndexService creates a new index service.
// metrics is optional - if nil, rebuilds are not recorded.
func NewIndexService(archive driven.ArchiveReader, index driven.IndexStore, metrics driven.SyncMetrics) *IndexService {
	return &IndexService{
		archive: archive,
		index:   index,
		metrics: metrics,
	}
}

// Rebuild scans every archived file and atomically replaces the index.
// Files that cannot be read or parsed are skipped with a warning.
func (s *IndexService) Rebuild(ctx context.Context) (*domain.IndexReport, error) {
	logger.Section("Index Rebuild")

	entries := []domain.IndexEntry{}
	skipped := 0

	for file, err := range s.archive.Files(ctx) {
		if err != nil {
			if errors.Is(err, domain.ErrUnreadableEntry) {
				logger.Warn("Skipping %v", err)
				skipped++
				continue
			}
			return nil, fmt.Errorf("scan archive: %w", err)
		}

		rec, err := domain.DecodeRecord(file.Data)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			logger.Warn("Skipping unparsable archive file %s: %v", file.Path, err)
			skipped++
			continue
		}

		entries = append(entries, domain.NewIndexEntry(rec, file.Partition, file.Path))
	}

	if err := s.index.Replace(ctx, entries); err != nil {
		return nil, fmt.Errorf("%w: write index: %w", domain.ErrStorage, err)
	}

	report := &domain.IndexReport{
		Entries: len(entries),
		Skipped: skipped,
		Path:    s.index.Location(),
	}
	if s.metrics != nil {
		s.metrics.ObserveIndex(report)
	}

	logger.Info("Index rebuilt: %d entries, %d skipped", report.Entries, report.Skipped)
	return report, nil
}

// Lookup returns the entry for a record ID.
func (s *IndexService) Lookup(ctx context.Context, id string) (*domain.IndexEntry, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty record id", domain.ErrInvalidInput)
	}

	entries, err := s.index.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("record %s: %w", id, domain.ErrNotFound)
}

// Find returns every entry matching the filter, in index order.
func (s *IndexService) Find(ctx context.Context, filter domain.IndexFilter) ([]domain.IndexEntry, error) {
	entries, err := s.index.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	matched := []domain.IndexEntry{}
	for _, e := range entries {
		if filter.Matches(e) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}
