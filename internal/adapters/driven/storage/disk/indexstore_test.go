package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

func TestIndexStore_NotBuilt(t *testing.T) {
	store := NewIndexStore(filepath.Join(t.TempDir(), "index.json"))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIndexStore_ReplaceAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "index.json")
	store := NewIndexStore(path)
	ctx := context.Background()

	entries := []domain.IndexEntry{
		{ID: "1", Subject: "a", Company: "Acme", Tags: []string{"x"}, Customer: "a@acme.io", Status: "active", Path: "archive/Acme/2020/1.json"},
		{ID: "2", Company: "Beta", Tags: []string{}, Path: "archive/Beta/2021/2.json"},
	}
	require.NoError(t, store.Replace(ctx, entries))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	require.NoError(t, store.Replace(ctx, entries[1:]))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries[1:], got, "replace drops stale entries")
	assert.Equal(t, path, store.Location())
}

func TestIndexStore_EmptyIndexIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	store := NewIndexStore(path)

	require.NoError(t, store.Replace(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestIndexStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0644))

	_, err := NewIndexStore(path).Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
