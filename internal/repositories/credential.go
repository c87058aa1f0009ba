package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CredentialRepository implements auth.Store over the kv_store table,
// giving the credential lifecycle a durable, process-independent key space.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Get returns the value stored under key and whether it was present.
func (r *CredentialRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query kv entry: %w", err)
	}

	return value, true, nil
}

// Set upserts the value under key. A single statement, so readers never
// observe a partially written entry.
func (r *CredentialRepository) Set(key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write kv entry: %w", err)
	}

	return nil
}

// Remove deletes the entry under key. Removing an absent key is a no-op.
func (r *CredentialRepository) Remove(key string) error {
	if _, err := r.db.Exec("DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete kv entry: %w", err)
	}

	return nil
}
