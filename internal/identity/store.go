package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
)

// Credentials is the provider-persisted session state backing silent
// restore. It is the only thing the host stores between runs.
type Credentials struct {
	Email string        `json:"email"`
	Token *oauth2.Token `json:"token"`
}

// Store reads and writes the credential file. A missing file means no
// prior session.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStorePath resolves the credential file location under the user's
// state directory.
func DefaultStorePath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("gemini-shell", "credentials.json"))
	if err != nil {
		return "", fmt.Errorf("resolve credential path: %w", err)
	}
	return path, nil
}

// Load returns the stored credentials, or (nil, nil) when none exist.
func (s *Store) Load() (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	if creds.Token == nil {
		return nil, nil
	}
	return &creds, nil
}

func (s *Store) Save(creds *Credentials) error {
	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes the credential file. Clearing an absent file is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}
