// package repositories provides the persistence layer for the song library.
//
// Each repository wraps a table in the SQLite store and exposes row-level
// CRUD scoped by user id, ascending order-by, and upsert-by-primary-key.
// The tasks and auth packages consume these through their own store
// interfaces, so a hosted backend can replace this package without touching
// the sync logic.
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// marshalList encodes a string list for storage in a TEXT column.
// nil encodes as the empty list.
func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

// unmarshalList decodes a TEXT column back into a string list.
func unmarshalList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return values, nil
}
