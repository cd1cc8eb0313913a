// Package sqlite provides the run ledger, a SQLite implementation of driven.RunStore.
//
// Every sync invocation appends one row to sync_runs, whatever its outcome,
// so `hsarchive history` can show what earlier runs archived and where they
// stopped. The ledger is optional: the application runs without it when the
// database cannot be opened.
//
// The driver is modernc.org/sqlite (pure Go). Migrations are embedded from
// migrations/ as numbered .up.sql/.down.sql pairs and applied in order on
// open. The database lives at <state dir>/runs.db and is opened in WAL mode.
package sqlite
