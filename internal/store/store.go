// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed bibliography lists in a SQLite
// database keyed by citation source. It belongs to the CLI shell, not
// the normalization core: the core packages are pure functions over
// in-memory data, and persistence of their results is the surrounding
// application's responsibility.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openpress/bibnorm/pkg/types"
)

// Store manages the bibliography SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the bibliography database at cfg.DBPath,
// creating the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS bibliographies (
			source TEXT PRIMARY KEY,
			saved_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL REFERENCES bibliographies(source) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT,
			doi TEXT,
			eprint TEXT,
			year TEXT,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source, position)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_doi ON entries(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveBibliography stores an entry list under the given source name,
// replacing any previously saved list for that source. Entry order is
// preserved through the position column.
func (s *Store) SaveBibliography(ctx context.Context, source string, entries []types.Bibentry) error {
	if source == "" {
		return fmt.Errorf("source name required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE source = ?`, source); err != nil {
		return fmt.Errorf("clearing previous entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bibliographies (source, saved_at) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET saved_at = excluded.saved_at`,
		source, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("recording bibliography: %w", err)
	}

	for i, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entries (source, position, title, doi, eprint, year, data)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			source, i, e.Title, e.DOI, e.Eprint, e.Year, string(data),
		); err != nil {
			return fmt.Errorf("inserting entry %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadBibliography returns the entry list saved under source, in its
// original order.
func (s *Store) LoadBibliography(ctx context.Context, source string) ([]types.Bibentry, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM bibliographies WHERE source = ?`, source).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking source: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("no bibliography saved under %q", source)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM entries WHERE source = ? ORDER BY position`, source)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []types.Bibentry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		var e types.Bibentry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("decoding entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// BibliographyInfo summarizes one saved bibliography.
type BibliographyInfo struct {
	Source  string
	Entries int
	SavedAt string
}

// ListBibliographies returns a summary of every saved bibliography,
// ordered by source name.
func (s *Store) ListBibliographies(ctx context.Context) ([]BibliographyInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.source, b.saved_at, count(e.rowid)
		 FROM bibliographies b LEFT JOIN entries e ON e.source = b.source
		 GROUP BY b.source ORDER BY b.source`)
	if err != nil {
		return nil, fmt.Errorf("querying bibliographies: %w", err)
	}
	defer rows.Close()

	var infos []BibliographyInfo
	for rows.Next() {
		var info BibliographyInfo
		if err := rows.Scan(&info.Source, &info.SavedAt, &info.Entries); err != nil {
			return nil, fmt.Errorf("scanning bibliography: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteBibliography removes a saved bibliography and its entries.
func (s *Store) DeleteBibliography(ctx context.Context, source string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bibliographies WHERE source = ?`, source)
	if err != nil {
		return fmt.Errorf("deleting bibliography: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("no bibliography saved under %q", source)
	}
	return nil
}
