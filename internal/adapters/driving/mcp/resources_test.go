package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

func TestExtractCompany(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid company URI", uri: "hsarchive://companies/Acme_Inc/records", expected: "Acme_Inc"},
		{name: "dotted company", uri: "hsarchive://companies/example.org/records", expected: "example.org"},
		{name: "invalid prefix", uri: "file://companies/Acme_Inc/records", expected: ""},
		{name: "missing records suffix", uri: "hsarchive://companies/Acme_Inc", expected: ""},
		{name: "nested path", uri: "hsarchive://companies/a/b/records", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCompany(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleIndexResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists every entry", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{entries: sampleEntries()}})
		require.NoError(t, err)

		result, err := server.handleIndexResource(ctx, makeReadResourceRequest("hsarchive://index"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var entries []RecordEntry
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &entries))
		assert.Len(t, entries, 3)
	})

	t.Run("index failure is returned", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{err: errors.New("boom")}})
		require.NoError(t, err)

		_, err = server.handleIndexResource(ctx, makeReadResourceRequest("hsarchive://index"))
		assert.Error(t, err)
	})
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil sync orchestrator returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{}})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("hsarchive://runs"))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists runs", func(t *testing.T) {
		finished := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)
		sync := &mockSyncOrchestrator{runs: []domain.SyncReport{{
			RunID:      "run-1",
			Strategy:   domain.StrategyWindow,
			FinishedAt: finished,
			Outcome:    domain.OutcomeDone,
			StopReason: domain.StopBatchLimit,
			EndCursor:  "2023-11-01",
			Pages:      500,
			Records:    24000,
		}}}
		server, err := NewServer(&Ports{Index: &mockIndexService{}, Sync: sync})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("hsarchive://runs"))
		require.NoError(t, err)

		var runs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, "run-1", runs[0]["run_id"])
		assert.Equal(t, "batch_limit", runs[0]["stop_reason"])
		assert.Equal(t, "2023-11-01", runs[0]["end_cursor"])
		assert.EqualValues(t, 24000, runs[0]["records"])
	})

	t.Run("history failure is returned", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{}, Sync: &mockSyncOrchestrator{err: errors.New("ledger locked")}})
		require.NoError(t, err)

		_, err = server.handleRunsResource(ctx, makeReadResourceRequest("hsarchive://runs"))
		assert.Error(t, err)
	})
}

func TestServer_handleCompanyResource(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(&Ports{Index: &mockIndexService{entries: sampleEntries()}})
	require.NoError(t, err)

	t.Run("returns the company's records", func(t *testing.T) {
		result, err := server.handleCompanyResource(ctx, makeReadResourceRequest("hsarchive://companies/Acme_Inc/records"))
		require.NoError(t, err)

		var entries []RecordEntry
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &entries))
		assert.Len(t, entries, 2)
	})

	t.Run("unknown company is not found", func(t *testing.T) {
		_, err := server.handleCompanyResource(ctx, makeReadResourceRequest("hsarchive://companies/Nobody/records"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleCompanyResource(ctx, makeReadResourceRequest("hsarchive://companies/"))
		assert.Error(t, err)
	})
}
