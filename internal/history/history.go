// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists completed resolutions to SQLite so past
// outcomes can be listed and summarized. The store is optional: the
// resolver works without one, and recording is always best-effort.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdf-resolver/pkg/types"
)

// Store manages the resolution history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at path, creating the
// schema if it does not exist.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
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
		`CREATE TABLE IF NOT EXISTS resolutions (
			id TEXT PRIMARY KEY,
			doi TEXT,
			arxiv_id TEXT,
			bibcode TEXT,
			state TEXT NOT NULL,
			source_type TEXT,
			source_url TEXT,
			reason TEXT,
			resolved_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_doi ON resolutions(doi)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_state ON resolutions(state)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one completed resolution.
func (s *Store) Record(ctx context.Context, pub types.Publication, status types.PDFAccessStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resolutions (id, doi, arxiv_id, bibcode, state, source_type, source_url, reason, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), pub.DOI, pub.ArxivID, pub.Bibcode,
		string(status.State), string(status.Source.Type), status.Source.URL,
		string(status.Reason), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting resolution: %w", err)
	}
	return tx.Commit()
}

// Entry is one recorded resolution.
type Entry struct {
	ID         string
	DOI        string
	ArxivID    string
	Bibcode    string
	State      types.AccessState
	SourceType types.SourceType
	SourceURL  string
	Reason     types.UnavailableReason
	ResolvedAt time.Time
}

// Recent returns the newest entries, most recent first. limit <= 0
// means 20. Ordering is by insertion, not by the resolved_at text:
// RFC3339Nano trims trailing zeros, so its string order is not
// chronological.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doi, arxiv_id, bibcode, state, source_type, source_url, reason, resolved_at
		 FROM resolutions ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying resolutions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var state, sourceType, reason, resolvedAt string
		if err := rows.Scan(&e.ID, &e.DOI, &e.ArxivID, &e.Bibcode,
			&state, &sourceType, &e.SourceURL, &reason, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scanning resolution row: %w", err)
		}
		e.State = types.AccessState(state)
		e.SourceType = types.SourceType(sourceType)
		e.Reason = types.UnavailableReason(reason)
		if t, err := time.Parse(time.RFC3339Nano, resolvedAt); err == nil {
			e.ResolvedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary returns the number of recorded resolutions per access state.
func (s *Store) Summary(ctx context.Context) (map[types.AccessState]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT state, count(*) FROM resolutions GROUP BY state`)
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.AccessState]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		counts[types.AccessState(state)] = n
	}
	return counts, rows.Err()
}
