package store

import (
	"database/sql"
	"fmt"
)

// Get returns the value stored under key. The second return is false when
// the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM days WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes value under key, overwriting any existing record.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO days (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes the record under key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM days WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// SetMany writes every entry in one transaction, so a failure leaves the
// store untouched.
func (s *Store) SetMany(entries map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for key, value := range entries {
		if _, err := tx.Exec(
			`INSERT INTO days (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("set %q: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListKeys returns every stored key, sorted ascending.
func (s *Store) ListKeys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM days ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
