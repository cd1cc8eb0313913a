package mcp

import (
	"context"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driving"
)

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	entries []domain.IndexEntry
	err     error
	filters []domain.IndexFilter
}

func (m *mockIndexService) Rebuild(_ context.Context) (*domain.IndexReport, error) {
	return &domain.IndexReport{Entries: len(m.entries)}, m.err
}

func (m *mockIndexService) Lookup(_ context.Context, id string) (*domain.IndexEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.entries {
		if m.entries[i].ID == id {
			e := m.entries[i]
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockIndexService) Find(_ context.Context, filter domain.IndexFilter) ([]domain.IndexEntry, error) {
	m.filters = append(m.filters, filter)
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

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	runs []domain.SyncReport
	err  error
}

func (m *mockSyncOrchestrator) Run(_ context.Context, _ driving.ProgressFunc) (*domain.SyncReport, error) {
	return nil, m.err
}

func (m *mockSyncOrchestrator) Status() *driving.SyncStatus {
	return &driving.SyncStatus{}
}

func (m *mockSyncOrchestrator) History(_ context.Context, limit int) ([]domain.SyncReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > 0 && len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockSyncOrchestrator) Checkpoint(_ context.Context) (domain.Cursor, bool, error) {
	return domain.Cursor{}, false, m.err
}

func (m *mockSyncOrchestrator) ResetCheckpoint(_ context.Context) error {
	return m.err
}

func sampleEntries() []domain.IndexEntry {
	return []domain.IndexEntry{
		{ID: "101", Subject: "Refund", Company: "Acme_Inc", Tags: []string{"billing"}, Customer: "jane@acme.io", Status: "closed", Path: "archive/Acme_Inc/2023/101.json"},
		{ID: "102", Subject: "Login", Company: "Acme_Inc", Tags: []string{"bug", "vip"}, Customer: "joe@acme.io", Status: "active", Path: "archive/Acme_Inc/2024/102.json"},
		{ID: "103", Subject: "Hello", Company: "example.org", Tags: []string{}, Customer: "a@example.org", Status: "active", Path: "archive/example.org/2024/103.json"},
	}
}
