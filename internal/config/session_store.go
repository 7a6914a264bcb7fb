package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/stratdesk/internal/session"
)

// SessionStore persists the employee session blob as JSON in the settings
// directory (standalone mode). It implements session.FileLoader.
type SessionStore struct {
	// dir overrides the settings directory; empty means ~/.stratdesk.
	dir string
}

// NewSessionStore returns a store over the default settings directory.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// NewSessionStoreAt returns a store over an explicit directory.
func NewSessionStoreAt(dir string) *SessionStore {
	return &SessionStore{dir: dir}
}

func (s *SessionStore) path() (string, error) {
	dir := s.dir
	if dir == "" {
		var err error
		dir, err = Dir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, "session.json"), nil
}

// LoadSession reads the persisted session blob. Returns os.ErrNotExist
// errors unwrapped so callers can treat an absent blob as "no session".
func (s *SessionStore) LoadSession() (*session.Context, error) {
	path, err := s.path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ctx session.Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("failed to parse session blob: %w", err)
	}
	return &ctx, nil
}

// SaveSession writes the session blob.
func (s *SessionStore) SaveSession(ctx *session.Context) error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}

	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// ClearSession removes the persisted blob. Missing blobs are not an error.
func (s *SessionStore) ClearSession() error {
	path, err := s.path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
