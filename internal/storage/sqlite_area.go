package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const createItemsTable = `CREATE TABLE IF NOT EXISTS items (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteArea persists items in a single SQLite table.
type SQLiteArea struct {
	sqlDB *sql.DB
	clock func() time.Time
}

// OpenSQLiteArea opens (or creates) the database at path and ensures the schema.
func OpenSQLiteArea(path string) (*SQLiteArea, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createItemsTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create items table: %w", err)
	}
	return &SQLiteArea{sqlDB: sqlDB, clock: time.Now}, nil
}

func (a *SQLiteArea) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkContext(ctx); err != nil {
		return "", false, err
	}
	if a == nil || a.sqlDB == nil {
		return "", false, ErrClosed
	}
	var value string
	err := a.sqlDB.QueryRowContext(ctx, `SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %q: %w", key, err)
	}
	return value, true, nil
}

func (a *SQLiteArea) SetItem(ctx context.Context, key, value string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if a == nil || a.sqlDB == nil {
		return ErrClosed
	}
	_, err := a.sqlDB.ExecContext(ctx,
		`INSERT INTO items (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, a.clock().UTC().UnixMilli(),
	)
	if isDiskFull(err) {
		return errors.Join(ErrQuotaExceeded, err)
	}
	if err != nil {
		return fmt.Errorf("set item %q: %w", key, err)
	}
	return nil
}

// Close closes the SQLite handle.
func (a *SQLiteArea) Close() error {
	if a == nil || a.sqlDB == nil {
		return nil
	}
	return a.sqlDB.Close()
}

func isDiskFull(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3lib.SQLITE_FULL
	}
	return false
}
