// Package sqlite provides a SQLite-backed storage.Storage.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sergey-Okey/toka-app/pkg/storage"
	"github.com/Sergey-Okey/toka-app/pkg/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DefaultFile is the database file name used inside the data directory.
const DefaultFile = "toka.db"

// Store keeps every key as one row of the items table.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) GetItem(key string) (string, bool, error) {
	var value string
	err := s.sqlDB.QueryRow(`SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get item %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) SetItem(key, value string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.sqlDB.Exec(
		`INSERT INTO items (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set item %s: %w", key, err)
	}
	return nil
}

func (s *Store) RemoveItem(key string) error {
	if _, err := s.sqlDB.Exec(`DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove item %s: %w", key, err)
	}
	return nil
}

var _ storage.Storage = (*Store)(nil)
