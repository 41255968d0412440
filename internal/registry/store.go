// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// Store persists a citation collection to SQLite so that a reference
// list can outlive the process that assembled it (document assembly,
// auditing).
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the citation database at path and ensures
// the schema exists.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS citations (
			id INTEGER PRIMARY KEY,
			standard_id TEXT,
			title TEXT,
			year TEXT,
			clause_ref TEXT,
			page TEXT,
			url TEXT,
			source_doc_id TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_standard_id ON citations(standard_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save writes the citations, replacing any rows sharing the same IDs
// (last write wins, matching Registry semantics).
func (s *Store) Save(ctx context.Context, citations []types.Citation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO citations
			(id, standard_id, title, year, clause_ref, page, url, source_doc_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range citations {
		if _, err := stmt.ExecContext(ctx,
			c.ID, c.StandardID, c.Title, c.Year, c.ClauseRef, c.Page, c.URL, c.SourceDocID,
		); err != nil {
			return fmt.Errorf("inserting citation %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Load returns every stored citation ordered by ID.
func (s *Store) Load(ctx context.Context) ([]types.Citation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, standard_id, title, year, clause_ref, page, url, source_doc_id
		FROM citations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var citations []types.Citation
	for rows.Next() {
		var c types.Citation
		if err := rows.Scan(
			&c.ID, &c.StandardID, &c.Title, &c.Year, &c.ClauseRef, &c.Page, &c.URL, &c.SourceDocID,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		citations = append(citations, c)
	}

	return citations, rows.Err()
}

// Clear removes every stored citation.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM citations`); err != nil {
		return fmt.Errorf("clearing citations: %w", err)
	}
	return nil
}
