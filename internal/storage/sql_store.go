package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps entries in the kv_entries table of a MySQL or SQLite database.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

type kvEntry struct {
	Key   string `db:"entry_key"`
	Value string `db:"entry_value"`
}

func (store *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry kvEntry
	query := "SELECT entry_key, entry_value FROM kv_entries WHERE entry_key = ?"
	if err := store.db.GetContext(ctx, &entry, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("db.GetContext(%s) > %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (store *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO kv_entries (entry_key, entry_value) VALUES (:entry_key, :entry_value)
		ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value), updated_at = CURRENT_TIMESTAMP`
	if store.db.DriverName() == "sqlite" {
		query = `INSERT INTO kv_entries (entry_key, entry_value) VALUES (:entry_key, :entry_value)
		ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = CURRENT_TIMESTAMP`
	}

	if _, err := store.db.NamedExecContext(ctx, query, kvEntry{Key: key, Value: string(value)}); err != nil {
		return fmt.Errorf("db.NamedExecContext(%s) > %w", key, err)
	}
	return nil
}
