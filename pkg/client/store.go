package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// CredentialStore persists the token/user pair between runs, the way the
// browser app keeps them in local storage under the keys "token" and
// "user". Writers always win; there is no conflict resolution.
type CredentialStore interface {
	Load() (token string, user *User, err error)
	Save(token string, user *User) error
	ClearToken() error
	Clear() error
}

// MemoryStore is an in-process store, mainly for tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *User
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.user, nil
}

func (s *MemoryStore) Save(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return nil
}

func (s *MemoryStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

// FileStore keeps credentials in a JSON file. Multiple processes may share
// the file; the last writer wins and readers resync via Session.Resync.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type storedCredentials struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

func NewFileStore(path string) *FileStore { return &FileStore{path: path} }

// DefaultFileStore places the credential file under the user config dir.
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return NewFileStore(filepath.Join(dir, "clinic", "credentials.json")), nil
}

func (s *FileStore) Load() (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	var creds storedCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", nil, err
	}
	return creds.Token, creds.User, nil
}

func (s *FileStore) Save(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(storedCredentials{Token: token, User: user})
}

func (s *FileStore) ClearToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var creds storedCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		creds = storedCredentials{}
	}
	creds.Token = ""
	return s.write(creds)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) write(creds storedCredentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
