package tui

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// MockIndexService implements driving.IndexService for testing.
type MockIndexService struct {
	Entries []domain.IndexEntry
	Report  *domain.IndexReport
	FindErr error
	Err     error
}

func (m *MockIndexService) Rebuild(_ context.Context) (*domain.IndexReport, error) {
	return m.Report, m.Err
}

func (m *MockIndexService) Lookup(_ context.Context, id string) (*domain.IndexEntry, error) {
	for i := range m.Entries {
		if m.Entries[i].ID == id {
			return &m.Entries[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockIndexService) Find(_ context.Context, filter domain.IndexFilter) ([]domain.IndexEntry, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	var out []domain.IndexEntry
	for _, e := range m.Entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type MockSyncOrchestrator struct {
	mu     sync.Mutex
	Report *domain.SyncReport
	Err    error
	State  driving.SyncStatus
	Runs   int
}

func (m *MockSyncOrchestrator) Run(_ context.Context, _ driving.ProgressFunc) (*domain.SyncReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs++
	return m.Report, m.Err
}

func (m *MockSyncOrchestrator) Status() *driving.SyncStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.State
	return &s
}

func (m *MockSyncOrchestrator) History(_ context.Context, _ int) ([]domain.SyncReport, error) {
	return []domain.SyncReport{}, nil
}

func (m *MockSyncOrchestrator) Checkpoint(_ context.Context) (domain.Cursor, bool, error) {
	return domain.Cursor{Strategy: domain.StrategyPage, Page: 1}, false, nil
}

func (m *MockSyncOrchestrator) ResetCheckpoint(_ context.Context) error {
	return nil
}

func TestPorts_Validate(t *testing.T) {
	index := &MockIndexService{}
	orch := &MockSyncOrchestrator{}

	assert.NoError(t, NewPorts(index, orch).Validate())
	assert.ErrorIs(t, NewPorts(nil, orch).Validate(), ErrMissingIndexService)
	assert.ErrorIs(t, NewPorts(index, nil).Validate(), ErrMissingSyncOrchestrator)

	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrInvalidPorts)
}
