// Package storage keeps durable client-side state in a local sqlite
// settings table. The session token and serialized user live here.
package storage

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/planterm/planterm/internal/model"
)

//go:embed schema.sql
var schema string

// Storage slot keys
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store wraps the settings database
type Store struct {
	db *sql.DB
}

// Open creates a store at the given data directory, initializing the
// schema. An empty dir falls back to the XDG data directory.
func Open(dir string) (*Store, error) {
	path, err := dbPath(dir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// dbPath returns the path to the settings database file
func dbPath(dir string) (string, error) {
	if dir == "" {
		// Use XDG data directory or fallback to home directory
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		dir = filepath.Join(dataDir, "planterm")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "planterm.db"), nil
}

// Get retrieves a setting value by key; a missing key yields ""
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Set sets a setting value
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Delete removes a setting
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// Token reads the stored session token, "" when absent. Used by the
// HTTP client's token source on every outgoing request.
func (s *Store) Token() string {
	token, err := s.Get(KeyToken)
	if err != nil {
		return ""
	}
	return token
}

// SaveSession writes both session slots
func (s *Store) SaveSession(user *model.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to serialize user: %w", err)
	}
	if err := s.Set(KeyToken, token); err != nil {
		return err
	}
	return s.Set(KeyUser, string(raw))
}

// LoadSession reads both session slots back. A missing session returns
// (nil, "", nil); a stored user that fails to parse returns an error so
// the caller can treat the session as invalid.
func (s *Store) LoadSession() (*model.User, string, error) {
	token, err := s.Get(KeyToken)
	if err != nil {
		return nil, "", err
	}
	raw, err := s.Get(KeyUser)
	if err != nil {
		return nil, "", err
	}
	if token == "" || raw == "" {
		return nil, "", nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, "", fmt.Errorf("failed to parse stored user: %w", err)
	}
	return &user, token, nil
}

// ClearSession removes both session slots
func (s *Store) ClearSession() error {
	if err := s.Delete(KeyToken); err != nil {
		return err
	}
	return s.Delete(KeyUser)
}
