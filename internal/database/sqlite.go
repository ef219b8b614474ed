package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
  user_id TEXT PRIMARY KEY,
  created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  start_time INTEGER NOT NULL,
  end_time INTEGER,
  duration_seconds INTEGER CHECK (duration_seconds >= 0),
  CHECK ((end_time IS NULL) = (duration_seconds IS NULL))
);
CREATE INDEX IF NOT EXISTS idx_sessions_user_start ON sessions(user_id, start_time);
`

// NewSQLiteDB opens (creating if needed) a SQLite database at path and
// ensures the ledger schema. Timestamps are stored as unix milliseconds.
func NewSQLiteDB(path string) (*sql.DB, error) {
	path = strings.TrimPrefix(path, "sqlite://")
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc serialises writers per connection; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return db, nil
}
