package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

func TestServer_handleLookup(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the entry", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{entries: sampleEntries()}})
		require.NoError(t, err)

		_, output, err := server.handleLookup(ctx, nil, LookupInput{ID: "102"})

		require.NoError(t, err)
		assert.True(t, output.Found)
		require.NotNil(t, output.Record)
		assert.Equal(t, "Login", output.Record.Subject)
		assert.Equal(t, "Acme_Inc", output.Record.Company)
		assert.Equal(t, []string{"bug", "vip"}, output.Record.Tags)
		assert.Equal(t, "archive/Acme_Inc/2024/102.json", output.Record.Path)
	})

	t.Run("unknown id is not an error", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{entries: sampleEntries()}})
		require.NoError(t, err)

		_, output, err := server.handleLookup(ctx, nil, LookupInput{ID: "999"})

		require.NoError(t, err)
		assert.False(t, output.Found)
		assert.Nil(t, output.Record)
	})

	t.Run("index failure is returned", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{err: errors.New("index unreadable")}})
		require.NoError(t, err)

		_, _, err = server.handleLookup(ctx, nil, LookupInput{ID: "101"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index unreadable")
	})
}

func TestServer_handleFind(t *testing.T) {
	ctx := context.Background()

	t.Run("passes every filter field", func(t *testing.T) {
		index := &mockIndexService{entries: sampleEntries()}
		server, err := NewServer(&Ports{Index: index})
		require.NoError(t, err)

		_, output, err := server.handleFind(ctx, nil, FindInput{Company: "Acme_Inc", Status: "closed"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, 1, output.Total)
		assert.Equal(t, "101", output.Records[0].ID)
		assert.Equal(t, []domain.IndexFilter{{Company: "Acme_Inc", Status: "closed"}}, index.filters)
	})

	t.Run("limit truncates but reports total", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{entries: sampleEntries()}})
		require.NoError(t, err)

		_, output, err := server.handleFind(ctx, nil, FindInput{Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 3, output.Total)
		assert.Equal(t, "101", output.Records[0].ID)
	})

	t.Run("no matches is an empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{entries: sampleEntries()}})
		require.NoError(t, err)

		_, output, err := server.handleFind(ctx, nil, FindInput{Tag: "urgent"})

		require.NoError(t, err)
		assert.NotNil(t, output.Records)
		assert.Zero(t, output.Count)
	})

	t.Run("index not built is returned", func(t *testing.T) {
		server, err := NewServer(&Ports{Index: &mockIndexService{err: domain.ErrNotFound}})
		require.NoError(t, err)

		_, _, err = server.handleFind(ctx, nil, FindInput{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
