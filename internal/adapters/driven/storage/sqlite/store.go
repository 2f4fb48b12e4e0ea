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

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/linktask/internal/adapters/driven/jsonl"
	"github.com/custodia-labs/linktask/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/linktask/internal/core/domain"
	"github.com/custodia-labs/linktask/internal/core/ports/driven"
)

// Store is a SQLite-backed dataset store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.linktask/data/datasets.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".linktask", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "datasets.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
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

// DatasetStore returns a DatasetStore interface backed by this store.
func (s *Store) DatasetStore() driven.DatasetStore {
	return &datasetStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
		// "001_initial.up.sql" -> 1
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

// ==================== Dataset Store ====================

// datasetStore implements driven.DatasetStore.
type datasetStore struct {
	store *Store
}

var _ driven.DatasetStore = (*datasetStore)(nil)

// Contains reports whether the dataset exists.
func (s *datasetStore) Contains(ctx context.Context, name string) (bool, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM datasets WHERE name = ?", name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking dataset: %w", err)
	}
	return count > 0, nil
}

// Load returns the tasks of a dataset in insertion order.
func (s *datasetStore) Load(ctx context.Context, name string) ([]domain.Task, error) {
	ok, err := s.Contains(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT payload
		FROM tasks WHERE dataset = ?
		ORDER BY position
	`, name)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		task, err := jsonl.DecodeTask([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decoding task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Save appends tasks to a dataset, creating it when needed.
func (s *datasetStore) Save(ctx context.Context, name string, tasks []domain.Task) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (name, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`, name, now, now)
	if err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	var next int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE dataset = ?", name).Scan(&next)
	if err != nil {
		return fmt.Errorf("reading task position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, dataset, position, input_hash, task_hash, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, task := range tasks {
		payload, err := jsonl.EncodeTask(task)
		if err != nil {
			return fmt.Errorf("marshalling task %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), name, next+i,
			hashColumn(task.InputHash), hashColumn(task.TaskHash), string(payload), now); err != nil {
			return fmt.Errorf("inserting task %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// List returns all datasets with their task counts, sorted by name.
func (s *datasetStore) List(ctx context.Context) ([]domain.Dataset, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT d.name, d.created_at, d.updated_at, COUNT(t.id)
		FROM datasets d LEFT JOIN tasks t ON t.dataset = d.name
		GROUP BY d.name
		ORDER BY d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying datasets: %w", err)
	}
	defer rows.Close()

	var datasets []domain.Dataset
	for rows.Next() {
		var ds domain.Dataset
		var createdAt, updatedAt sql.NullTime
		if err := rows.Scan(&ds.Name, &createdAt, &updatedAt, &ds.TaskCount); err != nil {
			return nil, fmt.Errorf("scanning dataset: %w", err)
		}
		if createdAt.Valid {
			ds.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			ds.UpdatedAt = updatedAt.Time
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

// Delete removes a dataset and its tasks.
func (s *datasetStore) Delete(ctx context.Context, name string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM datasets WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting dataset: %w", err)
	}
	return nil
}

func hashColumn(h domain.Hash) string {
	if h == 0 {
		return ""
	}
	return h.String()
}
