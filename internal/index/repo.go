package index

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/swiki/internal/registry"
)

// ErrPageNotFound is returned by GetPage for unknown slugs.
var ErrPageNotFound = errors.New("index: page not found")

// PageRow represents a row in the pages table.
type PageRow struct {
	Slug        string
	Title       string
	Folder      string
	Description string
	Exists      bool
	IsIndex     bool
	Checksum    string
}

// Export replaces the stored graph with g in a single transaction.
func (db *DB) Export(g *registry.Graph) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM pages`); err != nil {
		return fmt.Errorf("index: clear pages: %w", err)
	}

	pageStmt, err := tx.Prepare(`
		INSERT INTO pages (slug, title, folder, description, exists_, is_index, checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare page insert: %w", err)
	}
	defer pageStmt.Close()

	linkStmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, source_title, target) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, e := range g.All() {
		r := e.Record
		if _, err := pageStmt.Exec(e.Slug, r.Title, r.Folder, r.Description, r.Exists, r.IsIndexPage, r.Checksum); err != nil {
			return fmt.Errorf("index: insert page %s: %w", e.Slug, err)
		}
		for _, bl := range r.Backlinks {
			if _, err := linkStmt.Exec(bl.Slug, bl.Title, e.Slug); err != nil {
				return fmt.Errorf("index: insert link: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetPage returns the stored row for slug.
func (db *DB) GetPage(slug string) (*PageRow, error) {
	var p PageRow
	err := db.conn.QueryRow(`
		SELECT slug, title, folder, description, exists_, is_index, checksum
		FROM pages WHERE slug = ?
	`, slug).Scan(&p.Slug, &p.Title, &p.Folder, &p.Description, &p.Exists, &p.IsIndex, &p.Checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get page: %w", err)
	}
	return &p, nil
}

// Stubs returns every page that has no source document.
func (db *DB) Stubs() ([]PageRow, error) {
	rows, err := db.conn.Query(`
		SELECT slug, title, folder, description, exists_, is_index, checksum
		FROM pages WHERE exists_ = 0 ORDER BY slug
	`)
	if err != nil {
		return nil, fmt.Errorf("index: stubs: %w", err)
	}
	defer rows.Close()

	var out []PageRow
	for rows.Next() {
		var p PageRow
		if err := rows.Scan(&p.Slug, &p.Title, &p.Folder, &p.Description, &p.Exists, &p.IsIndex, &p.Checksum); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
