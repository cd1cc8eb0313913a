package driven

import (
	"context"
	"iter"

	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
)

// ArchiveStore persists records, one file per record.
type ArchiveStore interface {
	// Write stores the record under its partition key, replacing any existing
	// file for the same record. Returns the path written.
	Write(ctx context.Context, record *domain.Record, partition string) (string, error)

	// PathFor returns where a record with the given key, year and ID is stored.
	PathFor(partition, year, id string) string
}

// ArchiveReader scans the on-disk archive.
type ArchiveReader interface {
	// Files yields every archived record file in lexical path order.
	// A file that cannot be read is yielded with an error wrapping
	// domain.ErrUnreadableEntry and the scan continues. Any other error ends
	// the scan. A missing archive yields nothing.
	Files(ctx context.Context) iter.Seq2[domain.ArchiveFile, error]

	// Root returns the archive directory.
	Root() string
}
