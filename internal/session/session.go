// Package session is the client-side session gate: it owns the single
// bearer token issued by the recommendation service. The token is opaque
// to the client and trusted until the service rejects it; there is no
// expiry or refresh logic.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// tokenFile is the persisted shape of a session.
type tokenFile struct {
	AccessToken string `json:"access_token"`
	SavedAt     int64  `json:"saved_at"` // unix milliseconds
}

// Store holds the session token and persists it across runs. It is the
// only state shared between screens; every protected screen reads it,
// successful auth writes it, and logout clears it.
type Store struct {
	mu    sync.RWMutex
	path  string
	token string
}

// Open creates a store backed by the given file. A missing file means
// no session; a corrupt file is treated the same and reported.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return s, fmt.Errorf("failed to parse session file: %w", err)
	}
	s.token = tf.AccessToken
	return s, nil
}

// IsAuthenticated reports whether a token is currently stored.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the stored token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken stores and persists the token. Called only after a successful
// auth response. On a persistence failure the in-memory token is left
// unchanged so the caller never navigates with a half-stored session.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		return fmt.Errorf("refusing to store empty token")
	}

	data, err := json.Marshal(tokenFile{
		AccessToken: token,
		SavedAt:     time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	s.token = token
	return nil
}

// Clear removes the token from memory and disk. The in-memory token is
// dropped first so callers are logged out even if the file removal fails.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
