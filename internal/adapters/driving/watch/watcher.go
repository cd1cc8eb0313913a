// Package watch rebuilds the index when the archive changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
	"github.com/custodia-labs/helpscout-archive/internal/logger"
)

// DefaultDebounce is how long the archive must stay quiet before a rebuild.
const DefaultDebounce = 2 * time.Second

// ErrClosed is returned when running a closed watcher.
var ErrClosed = errors.New("watcher closed")

// RebuildFunc receives the result of every rebuild.
type RebuildFunc func(report *domain.IndexReport, err error)

// Watcher rebuilds the index after archive changes settle.
type Watcher struct {
	root     string
	index    driving.IndexService
	debounce time.Duration
	onBuild  RebuildFunc

	mu     sync.Mutex
	closed bool
	fsw    *fsnotify.Watcher
}

// New creates a watcher for the archive at root. onBuild may be nil.
func New(root string, index driving.IndexService, debounce time.Duration, onBuild RebuildFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, index: index, debounce: debounce, onBuild: onBuild}
}

// Run watches until ctx is cancelled or Close is called. The archive root is
// created if it does not exist yet.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := w.start()
	if err != nil {
		return err
	}
	defer w.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(fsw, event) {
				continue
			}
			logger.Debug("archive change: %s %s", event.Op, event.Name)
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watching %s: %v", w.root, err)

		case <-timer.C:
			w.rebuild(ctx)
		}
	}
}

// Close stops the watcher. Closing twice is a no-op.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) start() (*fsnotify.Watcher, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return nil, fmt.Errorf("archive root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addTree(fsw, w.root); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	return fsw, nil
}

// handleEvent reports whether the event changes the indexed content.
// New directories are added to the watch list, since fsnotify is not recursive.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, event.Name); err != nil {
				logger.Warn("watching %s: %v", event.Name, err)
			}
			return true
		}
	}

	if filepath.Ext(event.Name) != ".json" {
		// a removed or renamed directory drops the records under it
		return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *Watcher) rebuild(ctx context.Context) {
	report, err := w.index.Rebuild(ctx)
	if err != nil {
		logger.Warn("index rebuild failed: %v", err)
	} else {
		logger.Info("index rebuilt: %d entries, %d skipped", report.Entries, report.Skipped)
	}
	if w.onBuild != nil {
		w.onBuild(report, err)
	}
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
