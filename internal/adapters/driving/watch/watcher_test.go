package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// countingIndex counts rebuilds.
type countingIndex struct {
	mu       sync.Mutex
	rebuilds int
}

func (c *countingIndex) Rebuild(_ context.Context) (*domain.IndexReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuilds++
	return &domain.IndexReport{Entries: c.rebuilds}, nil
}

func (c *countingIndex) Lookup(_ context.Context, _ string) (*domain.IndexEntry, error) {
	return nil, domain.ErrNotFound
}

func (c *countingIndex) Find(_ context.Context, _ domain.IndexFilter) ([]domain.IndexEntry, error) {
	return []domain.IndexEntry{}, nil
}

func (c *countingIndex) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuilds
}

func TestWatcher_RebuildsAfterChangesSettle(t *testing.T) {
	root := t.TempDir()
	index := &countingIndex{}
	built := make(chan *domain.IndexReport, 10)

	w := New(root, index, 250*time.Millisecond, func(r *domain.IndexReport, err error) {
		assert.NoError(t, err)
		built <- r
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	dir := filepath.Join(root, "Acme", "2024")
	require.NoError(t, os.MkdirAll(dir, 0755))
	time.Sleep(20 * time.Millisecond)
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte("{}"), 0644))
	}

	select {
	case <-built:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for rebuild")
	}

	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, 1, index.count(), "a burst of writes triggers one rebuild")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcher_CreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "archive")
	w := New(root, &countingIndex{}, 0, nil)
	assert.Equal(t, DefaultDebounce, w.debounce)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	assert.DirExists(t, root)
}

func TestWatcher_ClosedWatcherFails(t *testing.T) {
	w := New(t.TempDir(), &countingIndex{}, time.Second, nil)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Run(context.Background()), ErrClosed)
}

func TestWatcher_HandleEvent(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "1.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0644))
	sub := filepath.Join(root, "Acme")
	require.NoError(t, os.Mkdir(sub, 0755))

	fsw, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer fsw.Close()

	w := New(root, &countingIndex{}, time.Second, nil)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "record created", event: fsnotify.Event{Name: file, Op: fsnotify.Create}, want: true},
		{name: "record written", event: fsnotify.Event{Name: file, Op: fsnotify.Write | fsnotify.Chmod}, want: true},
		{name: "record removed", event: fsnotify.Event{Name: filepath.Join(root, "gone.json"), Op: fsnotify.Remove}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: file, Op: fsnotify.Chmod}, want: false},
		{name: "temp file", event: fsnotify.Event{Name: filepath.Join(root, ".1.json.123.tmp"), Op: fsnotify.Create}, want: false},
		{name: "other file written", event: fsnotify.Event{Name: filepath.Join(root, "notes.txt"), Op: fsnotify.Write}, want: false},
		{name: "directory created", event: fsnotify.Event{Name: sub, Op: fsnotify.Create}, want: true},
		{name: "directory removed", event: fsnotify.Event{Name: filepath.Join(root, "Old"), Op: fsnotify.Remove}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.handleEvent(fsw, tt.event))
		})
	}
	assert.Contains(t, fsw.WatchList(), sub)
}
