// Package sqlite provides the SQLite-backed export journal.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taxdesk/clientsearch/internal/domain"
	_ "modernc.org/sqlite"
)

// ErrInvalidEntry indicates an export entry missing its path or category.
var ErrInvalidEntry = errors.New("invalid export entry")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS exports (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT    NOT NULL,
	screen     TEXT    NOT NULL,
	category   TEXT    NOT NULL,
	rows       INTEGER NOT NULL DEFAULT 0,
	path       TEXT    NOT NULL,
	query      TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports (created_at);
`

// timeLayout has a fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStorage is an export journal stored in a SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (and creates if needed) the journal at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return storage, nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStorage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStorage) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return nil
}

// RecordExport appends an entry and returns its id. A zero CreatedAt is
// replaced with the current UTC time.
func (s *SQLiteStorage) RecordExport(ctx context.Context, e domain.ExportEntry) (int64, error) {
	if strings.TrimSpace(e.Path) == "" || !e.Category.IsValid() {
		return 0, fmt.Errorf("sqlite storage: %w", ErrInvalidEntry)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exports (created_at, screen, category, rows, path, query) VALUES (?, ?, ?, ?, ?, ?)`,
		e.CreatedAt.UTC().Format(timeLayout), string(e.Screen), e.Category.String(), e.Rows, e.Path, e.Query)
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: record export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: read export id: %w", err)
	}
	return id, nil
}

// ListExports returns the most recent entries first. limit <= 0 returns all.
func (s *SQLiteStorage) ListExports(ctx context.Context, limit int) ([]domain.ExportEntry, error) {
	q := `SELECT id, created_at, screen, category, rows, path, query FROM exports ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list exports: %w", err)
	}
	defer rows.Close()

	var entries []domain.ExportEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list exports: %w", err)
	}
	return entries, nil
}

// PruneExports deletes entries older than cutoff and returns how many were removed.
func (s *SQLiteStorage) PruneExports(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exports WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: prune exports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite storage: read rows affected: %w", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (domain.ExportEntry, error) {
	var (
		e         domain.ExportEntry
		createdAt string
		screen    string
		category  string
	)
	if err := rows.Scan(&e.ID, &createdAt, &screen, &category, &e.Rows, &e.Path, &e.Query); err != nil {
		return e, fmt.Errorf("sqlite storage: scan export: %w", err)
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return e, fmt.Errorf("sqlite storage: parse created_at %q: %w", createdAt, err)
	}
	e.CreatedAt = t
	e.Screen = domain.Screen(screen)
	e.Category = domain.Category(category)
	return e, nil
}
