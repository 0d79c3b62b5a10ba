// Package sqlite implements the meal, profile and credential stores on the
// device database.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// loggedAtLayout has a fixed width so logged_at sorts and compares as text.
const loggedAtLayout = "2006-01-02T15:04:05.000Z"

type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(loggedAtLayout)
}

func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(loggedAtLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return t.UTC(), nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalStrings(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
