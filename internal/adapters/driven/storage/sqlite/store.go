package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/helpscout-archive/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/helpscout-archive/internal/core/domain"
	"github.com/custodia-labs/helpscout-archive/internal/core/ports/driven"
)

// DatabaseFile is the ledger file name inside the state directory.
const DatabaseFile = "runs.db"

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// Store is the SQLite-backed run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the ledger in stateDir.
func NewStore(stateDir string) (*Store, error) {
	if stateDir == "" {
		stateDir = domain.DefaultStateDir
	}

	// Ensure directory exists
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record appends a finished run. Recording the same run ID twice replaces it.
func (s *Store) Record(ctx context.Context, r *domain.SyncReport) error {
	var indexEntries, indexSkipped sql.NullInt64
	var indexPath sql.NullString
	if r.Index != nil {
		indexEntries = sql.NullInt64{Int64: int64(r.Index.Entries), Valid: true}
		indexSkipped = sql.NullInt64{Int64: int64(r.Index.Skipped), Valid: true}
		indexPath = sql.NullString{String: r.Index.Path, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sync_runs (
			run_id, strategy, started_at, finished_at, outcome, stop_reason,
			start_cursor, end_cursor, pages, records, skipped, thread_fallbacks,
			rate_limit_retries, index_entries, index_skipped, index_path, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.RunID, string(r.Strategy), toUnixNano(r.StartedAt), toUnixNano(r.FinishedAt),
		string(r.Outcome), string(r.StopReason), r.StartCursor, r.EndCursor,
		r.Pages, r.Records, r.Skipped, r.ThreadFallbacks, r.RateLimitRetries,
		indexEntries, indexSkipped, indexPath, r.Error,
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", r.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]domain.SyncReport, error) {
	query := `
		SELECT run_id, strategy, started_at, finished_at, outcome, stop_reason,
			start_cursor, end_cursor, pages, records, skipped, thread_fallbacks,
			rate_limit_retries, index_entries, index_skipped, index_path, error
		FROM sync_runs
		ORDER BY started_at DESC, run_id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	runs := []domain.SyncReport{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (domain.SyncReport, error) {
	var (
		r                          domain.SyncReport
		strategy, outcome, stop    string
		startedAt, finishedAt      int64
		indexEntries, indexSkipped sql.NullInt64
		indexPath                  sql.NullString
	)
	err := rows.Scan(
		&r.RunID, &strategy, &startedAt, &finishedAt, &outcome, &stop,
		&r.StartCursor, &r.EndCursor, &r.Pages, &r.Records, &r.Skipped, &r.ThreadFallbacks,
		&r.RateLimitRetries, &indexEntries, &indexSkipped, &indexPath, &r.Error,
	)
	if err != nil {
		return r, fmt.Errorf("scanning run: %w", err)
	}

	r.Strategy = domain.Strategy(strategy)
	r.Outcome = domain.SyncOutcome(outcome)
	r.StopReason = domain.StopReason(stop)
	r.StartedAt = fromUnixNano(startedAt)
	r.FinishedAt = fromUnixNano(finishedAt)
	if indexEntries.Valid {
		r.Index = &domain.IndexReport{
			Entries: int(indexEntries.Int64),
			Skipped: int(indexSkipped.Int64),
			Path:    indexPath.String,
		}
	}
	return r, nil
}

func toUnixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_sync_runs.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
