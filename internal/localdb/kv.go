package localdb

import (
	"context"
	"database/sql"
)

// KV provides the small key-value table used for credentials and other
// client-local state.
type KV struct {
	store *Store
}

// NewKV creates a new key-value accessor.
func NewKV(store *Store) *KV {
	return &KV{store: store}
}

// Get returns the value for key, or ("", nil) when the key is absent.
func (k *KV) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := k.store.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Set stores value under key, replacing any existing value.
func (k *KV) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	_, err := k.store.ExecContext(ctx, query, key, value)
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	_, err := k.store.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}
