package memory

import (
	"context"
	"encoding/json"
	"iter"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure ArchiveStore implements the interfaces.
var (
	_ driven.ArchiveStore  = (*ArchiveStore)(nil)
	_ driven.ArchiveReader = (*ArchiveStore)(nil)
)

// ArchiveStore is an in-memory archive keyed by slash-separated path.
type ArchiveStore struct {
	mu     sync.RWMutex
	root   string
	files  map[string][]byte
	writes int
}

// NewArchiveStore creates a new in-memory archive rooted at root.
func NewArchiveStore(root string) *ArchiveStore {
	return &ArchiveStore{
		root:  root,
		files: make(map[string][]byte),
	}
}

// Write stores the record, replacing any previous content at the same path.
func (s *ArchiveStore) Write(_ context.Context, record *domain.Record, partition string) (string, error) {
	if err := record.Validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	p := s.PathFor(partition, record.Year(), record.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[p] = data
	s.writes++
	return p, nil
}

// PathFor returns the archive path for a record.
func (s *ArchiveStore) PathFor(partition, year, id string) string {
	return path.Join(s.root, partition, year, id+".json")
}

// Put stores raw bytes at a path, bypassing record encoding.
func (s *ArchiveStore) Put(p string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[p] = data
}

// Get returns the raw bytes stored at a path.
func (s *ArchiveStore) Get(p string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[p]
	return data, ok
}

// Len returns the number of stored files.
func (s *ArchiveStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Writes returns how many record writes were performed.
func (s *ArchiveStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Files yields every stored file in lexical path order.
func (s *ArchiveStore) Files(ctx context.Context) iter.Seq2[domain.ArchiveFile, error] {
	return func(yield func(domain.ArchiveFile, error) bool) {
		s.mu.RLock()
		paths := make([]string, 0, len(s.files))
		for p := range s.files {
			paths = append(paths, p)
		}
		snapshot := make(map[string][]byte, len(s.files))
		for p, data := range s.files {
			snapshot[p] = data
		}
		s.mu.RUnlock()
		slices.Sort(paths)

		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				yield(domain.ArchiveFile{}, err)
				return
			}
			file := domain.ArchiveFile{Path: p, Partition: s.partitionOf(p), Data: snapshot[p]}
			if !yield(file, nil) {
				return
			}
		}
	}
}

// Root returns the archive root.
func (s *ArchiveStore) Root() string {
	return s.root
}

func (s *ArchiveStore) partitionOf(p string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(p, s.root), "/")
	first, _, nested := strings.Cut(rel, "/")
	if !nested {
		return ""
	}
	return first
}
