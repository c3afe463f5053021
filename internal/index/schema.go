// Package index exports a frozen page graph to SQLite so backlinks and stubs
// can be queried after a build.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	slug        TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	folder      TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	exists_     INTEGER NOT NULL DEFAULT 0,
	is_index    INTEGER NOT NULL DEFAULT 0,
	checksum    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS links (
	source       TEXT NOT NULL,
	source_title TEXT NOT NULL DEFAULT '',
	target       TEXT NOT NULL,
	UNIQUE(source, target)
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);
`

// DB wraps a sql.DB with graph export operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
