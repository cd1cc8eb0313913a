package disk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure CheckpointStore implements the interface.
var _ driven.CheckpointStore = (*CheckpointStore)(nil)

// CheckpointStore keeps the cursor in a one-line text file: the next page
// number, or the first day of the next month as YYYY-MM-DD.
type CheckpointStore struct {
	path     string
	strategy domain.Strategy
	now      func() time.Time
}

// NewCheckpointStore creates a checkpoint store for the given strategy.
func NewCheckpointStore(path string, strategy domain.Strategy) *CheckpointStore {
	return &CheckpointStore{path: path, strategy: strategy, now: time.Now}
}

// Load reads the stored cursor. A missing file yields the start cursor.
func (s *CheckpointStore) Load(_ context.Context) (domain.Cursor, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.StartCursor(s.strategy, s.now()), false, nil
	}
	if err != nil {
		return domain.Cursor{}, false, fmt.Errorf("%w: reading checkpoint %s: %w", domain.ErrStorage, s.path, err)
	}

	cursor, err := domain.ParseCursor(s.strategy, string(data))
	if err != nil {
		return domain.Cursor{}, false, fmt.Errorf("checkpoint %s: %w", s.path, err)
	}
	return cursor, true, nil
}

// Save durably replaces the stored cursor.
func (s *CheckpointStore) Save(_ context.Context, cursor domain.Cursor) error {
	if cursor.Strategy != s.strategy {
		return fmt.Errorf("%w: %s cursor in %s checkpoint", domain.ErrInvalidInput, cursor.Strategy, s.strategy)
	}
	if err := writeFileAtomic(s.path, []byte(cursor.String()), 0644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorage, err)
	}
	return nil
}

// Reset deletes the checkpoint file.
func (s *CheckpointStore) Reset(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing checkpoint %s: %w", domain.ErrStorage, s.path, err)
	}
	return nil
}

// Location returns the checkpoint file path.
func (s *CheckpointStore) Location() string {
	return s.path
}
