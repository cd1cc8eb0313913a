package cli

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	mu       sync.Mutex
	report   *domain.SyncReport
	err      error
	status   driving.SyncStatus
	runs     []domain.SyncReport
	cursor   domain.Cursor
	found    bool
	resets   int
	limits   []int
	started  chan struct{}
	release  chan struct{}
	histErr  error
	resetErr error
	pages    []driving.PageProgress
}

func (m *mockSyncOrchestrator) Run(_ context.Context, progress driving.ProgressFunc) (*domain.SyncReport, error) {
	if m.started != nil {
		close(m.started)
	}
	if m.release != nil {
		<-m.release
	}
	if progress != nil {
		for _, p := range m.pages {
			progress(p)
		}
	}
	return m.report, m.err
}

func (m *mockSyncOrchestrator) Status() *driving.SyncStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.status
	return &s
}

func (m *mockSyncOrchestrator) setStatus(s driving.SyncStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = s
}

func (m *mockSyncOrchestrator) History(_ context.Context, limit int) ([]domain.SyncReport, error) {
	m.limits = append(m.limits, limit)
	if m.histErr != nil {
		return nil, m.histErr
	}
	return m.runs, nil
}

func (m *mockSyncOrchestrator) Checkpoint(_ context.Context) (domain.Cursor, bool, error) {
	return m.cursor, m.found, m.err
}

func (m *mockSyncOrchestrator) ResetCheckpoint(_ context.Context) error {
	m.resets++
	return m.resetErr
}

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	entries  []domain.IndexEntry
	report   *domain.IndexReport
	err      error
	rebuilds int
	filter   domain.IndexFilter
}

func (m *mockIndexService) Rebuild(_ context.Context) (*domain.IndexReport, error) {
	m.rebuilds++
	return m.report, m.err
}

func (m *mockIndexService) Lookup(_ context.Context, id string) (*domain.IndexEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.entries {
		if m.entries[i].ID == id {
			return &m.entries[i], nil
		}
	}
	return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
}

func (m *mockIndexService) Find(_ context.Context, filter domain.IndexFilter) ([]domain.IndexEntry, error) {
	m.filter = filter
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.IndexEntry{}
	for _, e := range m.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// mockConfig implements ConfigEditor for testing.
type mockConfig struct {
	values map[string]any
	err    error
}

func (m *mockConfig) Path() string { return "test.toml" }

func (m *mockConfig) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockConfig) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfig) Set(key string, value any) error {
	if m.err != nil {
		return m.err
	}
	if m.values == nil {
		m.values = map[string]any{}
	}
	m.values[key] = value
	return nil
}

// withServices installs services for the duration of a test.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	old := services
	services = s
	t.Cleanup(func() { services = old })
}

// executeCommand runs the root command with args and returns its combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
