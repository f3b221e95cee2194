// Package store keeps favorites and watch history as JSON files in the data
// directory. Both lists are ordered most recent first and hold at most one
// entry per id. Writes replace the whole file atomically.
package store

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"streambox/internal/fsutil"
	"streambox/internal/media"
)

const (
	// FavoritesFile and HistoryFile live in the data directory.
	FavoritesFile = "favorites.json"
	HistoryFile   = "history.json"

	// DefaultHistoryLimit caps the history when no limit is given.
	DefaultHistoryLimit = 100
)

// Store reads and writes the local favorites and history.
type Store struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for added_at and watched_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store in dataDir.
func New(fs afero.Fs, dataDir string, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{fs: fs, dir: dataDir, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Favorites returns the favorite entries, most recently added first.
func (s *Store) Favorites() []Entry {
	return s.read(FavoritesFile)
}

// IsFavorite reports whether id is among the favorites. Numeric ids match
// regardless of their textual form.
func (s *Store) IsFavorite(id string) bool {
	want := media.ParseID(id)
	for _, e := range s.Favorites() {
		if e.ID == want {
			return true
		}
	}
	return false
}

// ToggleFavorite removes entry if its id is a favorite, otherwise inserts it
// at the front with the current time as added_at. It reports whether the
// entry is a favorite afterwards.
func (s *Store) ToggleFavorite(entry Entry) bool {
	favorites := s.Favorites()
	if i := indexOf(favorites, entry.ID); i >= 0 {
		favorites = append(favorites[:i], favorites[i+1:]...)
		s.write(FavoritesFile, favorites)
		return false
	}

	entry.AddedAt = s.now()
	favorites = append([]Entry{entry}, favorites...)
	s.write(FavoritesFile, favorites)
	return true
}

// History returns the watch history, most recently watched first.
func (s *Store) History() []Entry {
	return s.read(HistoryFile)
}

// AddToHistory moves entry to the front of the history with the current time
// as watched_at, dropping any older record with the same id, and trims the
// history to limit entries. A limit of zero or less means
// DefaultHistoryLimit.
func (s *Store) AddToHistory(entry Entry, limit int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	history := s.History()
	kept := make([]Entry, 0, len(history)+1)
	entry.WatchedAt = s.now()
	kept = append(kept, entry)
	for _, e := range history {
		if e.ID != entry.ID {
			kept = append(kept, e)
		}
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}
	s.write(HistoryFile, kept)
}

// ClearHistory empties the history.
func (s *Store) ClearHistory() {
	s.write(HistoryFile, []Entry{})
}

func indexOf(entries []Entry, id media.ID) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// read returns the entries in name. A missing or unreadable file is empty.
func (s *Store) read(name string) []Entry {
	path := filepath.Join(s.dir, name)
	data, ok, err := fsutil.ReadFile(s.fs, path)
	if err != nil {
		s.logger.Warn("reading local records failed", "file", name, "error", err)
		return []Entry{}
	}
	if !ok || len(data) == 0 {
		return []Entry{}
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("local records are corrupt, treating as empty", "file", name, "error", err)
		return []Entry{}
	}

	// A bad record is dropped on its own so the rest of the file survives
	// the next write.
	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if string(bytes.TrimSpace(rec)) == "null" {
			continue
		}
		var e Entry
		if err := json.Unmarshal(rec, &e); err != nil {
			s.logger.Warn("skipping unreadable record", "file", name, "index", i, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return dedupe(entries)
}

// dedupe keeps the first entry per id, repairing files edited by hand.
func dedupe(entries []Entry) []Entry {
	seen := make(map[media.ID]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

// write replaces name with entries. Failures are logged and otherwise
// ignored.
func (s *Store) write(name string, entries []Entry) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.logger.Error("encoding local records failed", "file", name, "error", err)
		return
	}
	path := filepath.Join(s.dir, name)
	if err := fsutil.WriteFileAtomic(s.fs, path, append(data, '\n'), 0600); err != nil {
		s.logger.Error("writing local records failed", "file", name, "error", err)
	}
}
