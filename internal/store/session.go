package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the value stored under key. ok is false when the key is unset.
func (d *DB) Get(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading session key %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (d *DB) Put(key, value string) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO session (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, d.nowFunc().Unix())
	if err != nil {
		return fmt.Errorf("writing session key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an unset key is not an error.
func (d *DB) Delete(key string) error {
	if _, err := d.db.Exec(`DELETE FROM session WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting session key %q: %w", key, err)
	}
	return nil
}
