package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens an existing database file on a single connection
// with PRAGMA query_only set. A missing file is an error rather than a new
// empty database.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	if !isMemoryPath(path) {
		file := path
		if i := strings.IndexByte(file, '?'); i >= 0 {
			file = file[:i]
		}
		if _, err := os.Stat(strings.TrimPrefix(file, "file:")); err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// query_only is per connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set query_only: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
