// Package tokenstore persists the opaque session token between process
// runs, filling the role browser local storage plays for the web client.
// One durable key-value file; the token is the only entry.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const tokenKey = "token"

// Store is a durable key-value file holding the session token.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store backed by the file at path. The file is created
// lazily on the first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Token returns the persisted token, or "" when none is stored.
func (s *Store) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token store: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return "", fmt.Errorf("parse token store: %w", err)
	}
	return values[tokenKey], nil
}

// SaveToken persists the token, replacing any previous one. The file is
// written atomically with owner-only permissions.
func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token store dir: %w", err)
	}

	data, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace token store: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an empty store is not an
// error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear token store: %w", err)
	}
	return nil
}
