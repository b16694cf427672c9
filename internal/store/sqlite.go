package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    key        TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    version    INTEGER NOT NULL,
    updated_at DATETIME NOT NULL
);
`

// SQLiteStore keeps documents in a single SQLite table. Conditional saves
// are a single UPDATE ... WHERE version = ?, so concurrent writers cannot
// both succeed against the same version.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" is
// accepted.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create sqlite data directory: %w", err)
		}
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (Document, error) {
	var doc Document
	err := s.db.QueryRowContext(ctx,
		`SELECT key, content, version, updated_at FROM documents WHERE key = ?`, key,
	).Scan(&doc.Key, &doc.Content, &doc.Version, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("load %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("load %s: %w", key, err)
	}
	return doc, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key, content string, expected int64) (Document, error) {
	if !ValidKey(key) {
		return Document{}, fmt.Errorf("save %q: %w", key, ErrInvalidKey)
	}
	now := time.Now().UTC()

	// Each statement reports the version it wrote.
	var row *sql.Row
	switch {
	case expected == AnyVersion:
		row = s.db.QueryRowContext(ctx, `
INSERT INTO documents (key, content, version, updated_at) VALUES (?, ?, 1, ?)
ON CONFLICT(key) DO UPDATE SET content = excluded.content, version = documents.version + 1, updated_at = excluded.updated_at
RETURNING version`,
			key, content, now)
	case expected == 0:
		row = s.db.QueryRowContext(ctx,
			`INSERT INTO documents (key, content, version, updated_at) VALUES (?, ?, 1, ?) ON CONFLICT(key) DO NOTHING RETURNING version`,
			key, content, now)
	case expected > 0:
		row = s.db.QueryRowContext(ctx,
			`UPDATE documents SET content = ?, version = version + 1, updated_at = ? WHERE key = ? AND version = ? RETURNING version`,
			content, now, key, expected)
	default:
		return Document{}, fmt.Errorf("save %s: %w", key, ErrVersionConflict)
	}

	var version int64
	err := row.Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("save %s: %w", key, ErrVersionConflict)
	}
	if err != nil {
		return Document{}, fmt.Errorf("save %s: %w", key, err)
	}
	return Document{Key: key, Content: content, Version: version, UpdatedAt: now}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, content, version, updated_at FROM documents ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.Key, &d.Content, &d.Version, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s: %w", key, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
