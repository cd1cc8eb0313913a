package disk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore keeps the index as a single JSON array.
type IndexStore struct {
	path string
}

// NewIndexStore creates an index store writing to path.
func NewIndexStore(path string) *IndexStore {
	return &IndexStore{path: path}
}

// Replace writes the whole index, replacing the previous file.
func (s *IndexStore) Replace(ctx context.Context, entries []domain.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.IndexEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	return writeFileAtomic(s.path, append(data, '\n'), 0644)
}

// Load reads the index. Returns domain.ErrNotFound if it has not been built.
func (s *IndexStore) Load(_ context.Context) ([]domain.IndexEntry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("index %s: %w", s.path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading index %s: %w", s.path, err)
	}

	var entries []domain.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", s.path, err)
	}
	if entries == nil {
		entries = []domain.IndexEntry{}
	}
	return entries, nil
}

// Location returns the index file path.
func (s *IndexStore) Location() string {
	return s.path
}
