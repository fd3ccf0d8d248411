package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps the token in a single JSON file with 0600 permissions
// under the user's config directory.
type FileStore struct {
	path string
}

type tokenFile struct {
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}

// NewFileStore constructs a FileStore at the given path. An empty path
// resolves to <user config dir>/curio/token.json.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "curio", "token.json")
	}
	return &FileStore{path: path}, nil
}

// Path returns the file path backing the store.
func (s *FileStore) Path() string { return s.path }

// Save writes the token, replacing any previous value.
// The write goes through a temp file + rename so a crash mid-write never
// leaves a truncated token on disk.
func (s *FileStore) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty token")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	b, err := json.Marshal(tokenFile{Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit token file: %w", err)
	}
	return nil
}

// Load returns the stored token or ErrNotFound.
func (s *FileStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read token file: %w", err)
	}

	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}
	if strings.TrimSpace(tf.Token) == "" {
		return "", ErrNotFound
	}
	return tf.Token, nil
}

// Delete removes the token file. Absence is not an error.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete token file: %w", err)
	}
	return nil
}
