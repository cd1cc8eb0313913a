package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// scriptedArchive implements driven.ArchiveReader from a fixed list of results.
type scriptedArchive struct {
	files []domain.ArchiveFile
	errs  []error
}

func (a *scriptedArchive) Files(_ context.Context) iter.Seq2[domain.ArchiveFile, error] {
	return func(yield func(domain.ArchiveFile, error) bool) {
		for i := range a.files {
			if !yield(a.files[i], a.errs[i]) {
				return
			}
		}
	}
}

func (a *scriptedArchive) Root() string { return "archive" }

// failingIndexStore rejects every write.
type failingIndexStore struct {
	*memory.IndexStore
}

func (f *failingIndexStore) Replace(_ context.Context, _ []domain.IndexEntry) error {
	return errors.New("permission denied")
}

func seedArchive(t *testing.T, n int) *memory.ArchiveStore {
	t.Helper()
	archive := memory.NewArchiveStore("archive")
	for i := range n {
		rec := testRecord(t, fmt.Sprint(i+1), "Acme", "2023-05-01T00:00:00Z")
		_, err := archive.Write(context.Background(), rec, domain.PartitionKey(rec))
		require.NoError(t, err)
	}
	return archive
}

func TestIndexService_RebuildSkipsCorruptFiles(t *testing.T) {
	archive := seedArchive(t, 10)
	archive.Put("archive/Acme/2023/broken.json", []byte(`{"id": 11, "subj`))
	index := memory.NewIndexStore()

	report, err := NewIndexService(archive, index, nil).Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, report.Entries)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, "memory", report.Path)

	entries, err := index.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestIndexService_RebuildReflectsCurrentArchive(t *testing.T) {
	archive := seedArchive(t, 3)
	index := memory.NewIndexStore()
	svc := NewIndexService(archive, index, nil)

	_, err := svc.Rebuild(context.Background())
	require.NoError(t, err)

	moved := testRecord(t, "1", "Globex", "2023-05-01T00:00:00Z")
	_, err = archive.Write(context.Background(), moved, "Globex")
	require.NoError(t, err)

	report, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Entries, "each file on disk is one entry")

	found, err := svc.Find(context.Background(), domain.IndexFilter{Company: "Globex"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "archive/Globex/2023/1.json", found[0].Path)
}

func TestIndexService_RebuildEmptyArchive(t *testing.T) {
	index := memory.NewIndexStore()

	report, err := NewIndexService(memory.NewArchiveStore("archive"), index, nil).Rebuild(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Entries)

	entries, err := index.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIndexService_RebuildErrors(t *testing.T) {
	good := domain.ArchiveFile{Path: "archive/a/2020/1.json", Partition: "a", Data: []byte(`{"id": 1}`)}

	t.Run("unreadable entry skipped", func(t *testing.T) {
		archive := &scriptedArchive{
			files: []domain.ArchiveFile{{Path: "archive/a/2020/2.json"}, good},
			errs:  []error{fmt.Errorf("%w: archive/a/2020/2.json: permission denied", domain.ErrUnreadableEntry), nil},
		}
		report, err := NewIndexService(archive, memory.NewIndexStore(), nil).Rebuild(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Entries)
		assert.Equal(t, 1, report.Skipped)
	})

	t.Run("scan failure is fatal", func(t *testing.T) {
		archive := &scriptedArchive{
			files: []domain.ArchiveFile{{}},
			errs:  []error{errors.New("archive root is not a directory")},
		}
		index := memory.NewIndexStore()
		_, err := NewIndexService(archive, index, nil).Rebuild(context.Background())
		require.Error(t, err)

		_, err = index.Load(context.Background())
		assert.ErrorIs(t, err, domain.ErrNotFound, "index is not replaced")
	})

	t.Run("record without id skipped", func(t *testing.T) {
		archive := &scriptedArchive{
			files: []domain.ArchiveFile{{Path: "archive/a/2020/x.json", Data: []byte(`{"subject": "no id"}`)}, good},
			errs:  []error{nil, nil},
		}
		report, err := NewIndexService(archive, memory.NewIndexStore(), nil).Rebuild(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, report.Entries)
		assert.Equal(t, 1, report.Skipped)
	})

	t.Run("index write failure", func(t *testing.T) {
		archive := &scriptedArchive{files: []domain.ArchiveFile{good}, errs: []error{nil}}
		_, err := NewIndexService(archive, &failingIndexStore{memory.NewIndexStore()}, nil).Rebuild(context.Background())
		assert.ErrorIs(t, err, domain.ErrStorage)
	})
}

func TestIndexService_LookupAndFind(t *testing.T) {
	archive := memory.NewArchiveStore("archive")
	for _, raw := range []string{
		`{"id": 1, "createdAt": "2021-01-01", "status": "active", "tags": ["vip"], "customer": {"organization": "Acme"}}`,
		`{"id": 2, "createdAt": "2022-01-01", "status": "closed", "tags": [{"name": "bug"}], "customer": {"email": "x@globex.com"}}`,
		`{"id": 3, "createdAt": "2022-06-01", "status": "active", "tags": [], "customer": {"organization": "Acme"}}`,
	} {
		rec, err := domain.DecodeRecord([]byte(raw))
		require.NoError(t, err)
		_, err = archive.Write(context.Background(), rec, domain.PartitionKey(rec))
		require.NoError(t, err)
	}
	svc := NewIndexService(archive, memory.NewIndexStore(), nil)

	_, err := svc.Lookup(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "lookup before any rebuild")

	_, err = svc.Rebuild(context.Background())
	require.NoError(t, err)

	entry, err := svc.Lookup(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "globex.com", entry.Company)
	assert.Equal(t, []string{"bug"}, entry.Tags)

	_, err = svc.Lookup(context.Background(), "42")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	found, err := svc.Find(context.Background(), domain.IndexFilter{Company: "Acme", Status: "active"})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.Find(context.Background(), domain.IndexFilter{Tag: "vip"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)

	found, err = svc.Find(context.Background(), domain.IndexFilter{Customer: "nobody@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}
