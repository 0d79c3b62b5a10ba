package service

import (
	"database/sql"
	"fmt"
	"strings"
)

// LocalKey names a device-local value. Every key the client writes is
// declared here.
type LocalKey string

const (
	KeySessionStartedAt LocalKey = "mealwise_session_started_at"
	KeySavedEmail       LocalKey = "mealwise_saved_email"
	KeyPWATipDismissed  LocalKey = "mealwise_pwa_tip_dismissed"
	KeySessionToken     LocalKey = "mealwise_session_token"
	KeySigningSecret    LocalKey = "mealwise_signing_secret"
	keyActionPlanPrefix LocalKey = "mealwise_last_action_plan_"
)

// ActionPlanKey is the per user and month cache key for the last action plan.
func ActionPlanKey(userID, month string) LocalKey {
	return keyActionPlanPrefix + LocalKey(userID+"_"+month)
}

// UserKeys are the keys a user may inspect or set from the CLI.
var UserKeys = []LocalKey{KeySavedEmail, KeyPWATipDismissed}

// KeyValueStore is string keyed, string valued device storage with no expiry.
type KeyValueStore interface {
	Get(key LocalKey) (string, bool, error)
	Set(key LocalKey, value string) error
	Delete(key LocalKey) error
}

// LocalStore keeps device values in the local_store table.
type LocalStore struct {
	DB *sql.DB
}

func NewLocalStore(db *sql.DB) *LocalStore {
	return &LocalStore{DB: db}
}

func (s *LocalStore) Set(key LocalKey, value string) error {
	k := strings.TrimSpace(string(key))
	if k == "" {
		return fmt.Errorf("local store key is required")
	}
	_, err := s.DB.Exec(`
INSERT INTO local_store(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, k, value)
	if err != nil {
		return fmt.Errorf("set local value %q: %w", k, err)
	}
	return nil
}

func (s *LocalStore) Get(key LocalKey) (string, bool, error) {
	k := strings.TrimSpace(string(key))
	if k == "" {
		return "", false, fmt.Errorf("local store key is required")
	}
	var value string
	err := s.DB.QueryRow(`SELECT value FROM local_store WHERE key = ?`, k).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get local value %q: %w", k, err)
	}
	return value, true, nil
}

func (s *LocalStore) Delete(key LocalKey) error {
	if _, err := s.DB.Exec(`DELETE FROM local_store WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("delete local value %q: %w", key, err)
	}
	return nil
}

// List returns every stored value, keyed by name.
func (s *LocalStore) List() (map[string]string, error) {
	rows, err := s.DB.Query(`SELECT key, value FROM local_store ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list local values: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan local value: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate local values: %w", err)
	}
	return out, nil
}

// MemoryStore is an in-process KeyValueStore.
type MemoryStore map[LocalKey]string

func (m MemoryStore) Get(key LocalKey) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m MemoryStore) Set(key LocalKey, value string) error {
	m[key] = value
	return nil
}

func (m MemoryStore) Delete(key LocalKey) error {
	delete(m, key)
	return nil
}
