// Package session holds the bearer token that authenticates catalog requests.
//
// A Store is injected into the catalog client at construction. FileStore keeps the
// token on disk so a login survives between runs; MemoryStore keeps it in process.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// TokenKey is the key the token is persisted under
const TokenKey = "auth_token"

// Store holds an optional bearer token
type Store interface {
	// Get returns the current token and whether one is stored
	Get() (string, bool)
	// Set replaces the current token
	Set(token string) error
	// Clear removes the current token
	Clear() error
	// IsAuthenticated reports whether a token is stored
	IsAuthenticated() bool
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)

// MemoryStore is a Store that lives only as long as the process
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) Set(token string) error {
	if token == "" {
		return errors.New("token is required")
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}

// FileStore persists the token in a YAML document on disk
type FileStore struct {
	mu    sync.RWMutex
	path  string
	token string
}

// DefaultPath returns the default session file location
// (e.g. ~/.config/holonet/session.yaml on Linux)
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "holonet", "session.yaml"), nil
}

// NewFileStore opens the session file at path. A missing file means logged out.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session path is required")
	}

	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("unable to read session file: %w", err)
	}

	doc := make(map[string]string)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse session file: %w", err)
	}
	s.token = doc[TokenKey]

	return s, nil
}

// Path returns the location of the session file
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *FileStore) Set(token string) error {
	if token == "" {
		return errors.New("token is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("unable to create session directory: %w", err)
	}

	data, err := yaml.Marshal(map[string]string{TokenKey: token})
	if err != nil {
		return fmt.Errorf("unable to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}

	s.token = token
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}
