// Package credentials persists the access/refresh token pair. It knows
// nothing about the network; login and refresh live in the api package.
package credentials

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"streambox/internal/fsutil"
)

// FileName is the token record inside the data directory.
const FileName = "tokens.json"

// Pair is the stored token pair. A zero Pair means logged out.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Store reads and writes the token record.
type Store struct {
	fs     afero.Fs
	path   string
	logger *slog.Logger
}

// NewStore creates a store for tokens.json in dataDir.
func NewStore(fs afero.Fs, dataDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		fs:     fs,
		path:   filepath.Join(dataDir, FileName),
		logger: logger,
	}
}

// Load returns the stored pair. A missing or unreadable record is the same as
// being logged out and is never reported as an error.
func (s *Store) Load() Pair {
	data, ok, err := fsutil.ReadFile(s.fs, s.path)
	if err != nil {
		s.logger.Warn("reading tokens failed", "error", err)
		return Pair{}
	}
	if !ok || len(data) == 0 {
		return Pair{}
	}

	var p Pair
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("token record is corrupt, treating as logged out", "error", err)
		return Pair{}
	}
	return p
}

// Save replaces the stored pair.
func (s *Store) Save(access, refresh string) error {
	data, err := json.Marshal(Pair{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return fmt.Errorf("encoding tokens: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.fs, s.path, data, 0600); err != nil {
		return fmt.Errorf("saving tokens: %w", err)
	}
	return nil
}

// Clear removes the stored pair.
func (s *Store) Clear() error {
	if err := s.fs.Remove(s.path); err != nil {
		if exists, _ := afero.Exists(s.fs, s.path); !exists {
			return nil
		}
		return fmt.Errorf("clearing tokens: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether an access token is stored.
func (s *Store) IsLoggedIn() bool {
	return s.Load().AccessToken != ""
}
