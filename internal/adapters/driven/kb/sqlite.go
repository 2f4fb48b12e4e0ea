package kb

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Ensure SQLite implements the interface.
var _ driven.KnowledgeBase = (*SQLite)(nil)

const aliasSchema = `
	CREATE TABLE IF NOT EXISTS aliases (
		alias TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		prior REAL,
		PRIMARY KEY (alias, entity_id)
	)
`

// SQLite reads candidates from the aliases table of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the alias database at path. Connections are query only.
func OpenSQLite(path string) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening knowledge base: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening knowledge base: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening knowledge base: %w", err)
	}
	return &SQLite{db: db}, nil
}

// BuildSQLite writes aliases into the database at path, creating the
// aliases table if needed. Existing pairs are updated. Returns the number
// of rows written.
func BuildSQLite(ctx context.Context, path string, aliases []Alias) (int, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return 0, fmt.Errorf("opening knowledge base: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, aliasSchema); err != nil {
		return 0, fmt.Errorf("creating aliases table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO aliases (alias, entity_id, prior) VALUES (?, ?, ?)
		ON CONFLICT(alias, entity_id) DO UPDATE SET prior = excluded.prior
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range aliases {
		var prior sql.NullFloat64
		if a.Prior != nil {
			prior = sql.NullFloat64{Float64: *a.Prior, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, a.Alias, a.EntityID, prior); err != nil {
			return 0, fmt.Errorf("inserting alias %q: %w", a.Alias, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing aliases: %w", err)
	}
	return len(aliases), nil
}

// Close closes the database connection.
func (k *SQLite) Close() error {
	return k.db.Close()
}

// GetCandidates returns the entities stored for mention, highest prior first.
func (k *SQLite) GetCandidates(ctx context.Context, mention string) ([]domain.CandidateEntity, error) {
	rows, err := k.db.QueryContext(ctx, `
		SELECT entity_id, prior FROM aliases
		WHERE alias = ?
		ORDER BY prior IS NULL, prior DESC, rowid
	`, mention)
	if err != nil {
		return nil, fmt.Errorf("querying aliases: %w", err)
	}
	defer rows.Close()

	var candidates []domain.CandidateEntity
	for rows.Next() {
		var c domain.CandidateEntity
		var prior sql.NullFloat64
		if err := rows.Scan(&c.ID, &prior); err != nil {
			return nil, fmt.Errorf("scanning alias: %w", err)
		}
		if prior.Valid {
			p := prior.Float64
			c.Score = &p
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
