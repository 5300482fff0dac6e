// Package store persists users, projects, forms and responses in SQLite.
// Forms embed their sections (with components and conditions) as a single
// JSON document column; responses embed their answers the same way. All
// owner-scoped lookups filter by (id, owner_id) and report absence as a
// not-found error, whether the row is missing or owned by someone else.
package store

import (
	"database/sql"
	"encoding/json"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func encodeDoc(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeDoc(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}
