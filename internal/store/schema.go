// Package store persists the run collection in a SQLite catalog.
package store

// CreateRunsTableSQL creates the runs table. AUTOINCREMENT keeps SQLite from
// handing out the id of a deleted run again.
const CreateRunsTableSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    ags TEXT NOT NULL,
    year INTEGER NOT NULL,
    fingerprint TEXT NOT NULL,
    payload BLOB NOT NULL,
    size_bytes INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`

// CreateRunsIndexesSQL creates indexes for import deduplication and listing.
var CreateRunsIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_runs_fingerprint ON runs(fingerprint)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_inputs ON runs(ags, year)`,
}

// AllSchemaSQL returns all schema statements in execution order.
func AllSchemaSQL() []string {
	stmts := []string{CreateRunsTableSQL}
	return append(stmts, CreateRunsIndexesSQL...)
}
