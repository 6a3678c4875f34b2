package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepository stores opaque documents by key in the kv_store table
type KVRepository struct {
	db  *DB
	now func() time.Time
}

// NewKVRepository creates a new key-value repository
func NewKVRepository(db *DB) *KVRepository {
	return &KVRepository{db: db, now: time.Now}
}

// Get returns the stored value, or nil when the key does not exist
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM kv_store WHERE key = ?
	`, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return value, nil
}

// Set inserts or replaces the value stored under key
func (r *KVRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}

// Delete removes key; deleting a missing key is not an error
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Count returns the number of stored keys
func (r *KVRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv_store`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count keys: %w", err)
	}
	return count, nil
}

// Health returns storage health information
func (r *KVRepository) Health(ctx context.Context) map[string]any {
	health := map[string]any{
		"status": "healthy",
		"type":   "sqlite",
	}

	if err := r.db.PingContext(ctx); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		return health
	}

	if count, err := r.Count(ctx); err == nil {
		health["key_count"] = count
	}

	return health
}
