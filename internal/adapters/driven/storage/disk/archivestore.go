package disk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// Ensure ArchiveStore implements the interfaces.
var (
	_ driven.ArchiveStore  = (*ArchiveStore)(nil)
	_ driven.ArchiveReader = (*ArchiveStore)(nil)
)

// recordExt is the extension of archived record files.
const recordExt = ".json"

// ArchiveStore stores one pretty-printed JSON file per record at
// <root>/<partition>/<year>/<id>.json.
type ArchiveStore struct {
	root string
}

// NewArchiveStore creates an archive rooted at root. The directory is created
// on first write.
func NewArchiveStore(root string) *ArchiveStore {
	return &ArchiveStore{root: root}
}

// Write stores the record, replacing any previous file for it.
func (s *ArchiveStore) Write(ctx context.Context, record *domain.Record, partition string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := record.Validate(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encoding record %s: %w", record.ID, err)
	}

	path := s.PathFor(partition, record.Year(), record.ID)
	if err := writeFileAtomic(path, append(data, '\n'), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// PathFor returns the file a record is stored in.
func (s *ArchiveStore) PathFor(partition, year, id string) string {
	return filepath.Join(s.root, partition, year, id+recordExt)
}

// Root returns the archive directory.
func (s *ArchiveStore) Root() string {
	return s.root
}

// Files yields every record file under the root in lexical path order.
// Paths are slash-separated regardless of platform.
func (s *ArchiveStore) Files(ctx context.Context) iter.Seq2[domain.ArchiveFile, error] {
	return func(yield func(domain.ArchiveFile, error) bool) {
		paths, err := s.scan()
		if err != nil {
			yield(domain.ArchiveFile{}, err)
			return
		}

		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				yield(domain.ArchiveFile{}, err)
				return
			}

			file := domain.ArchiveFile{
				Path:      filepath.ToSlash(p),
				Partition: s.partitionOf(p),
			}
			data, err := os.ReadFile(p)
			if err != nil {
				if !yield(file, fmt.Errorf("%w: %s: %w", domain.ErrUnreadableEntry, file.Path, err)) {
					return
				}
				continue
			}
			file.Data = data
			if !yield(file, nil) {
				return
			}
		}
	}
}

// scan lists record files under the root. A missing root lists nothing.
func (s *ArchiveStore) scan() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == s.root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != recordExt {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning archive %s: %w", s.root, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// partitionOf returns the first directory below the root, or "" for files
// stored directly in the root.
func (s *ArchiveStore) partitionOf(p string) string {
	rel, err := filepath.Rel(s.root, p)
	if err != nil {
		return ""
	}
	first, _, nested := strings.Cut(filepath.ToSlash(rel), "/")
	if !nested {
		return ""
	}
	return first
}
