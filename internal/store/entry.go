package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"streambox/internal/media"
)

// Entry is one favorite or history record. Fields this package does not know
// about are kept in Extra and written back unchanged.
type Entry struct {
	ID        media.ID
	Title     string
	AddedAt   time.Time
	WatchedAt time.Time
	Extra     map[string]json.RawMessage
}

const (
	keyID        = "id"
	keyTitle     = "title"
	keyAddedAt   = "added_at"
	keyWatchedAt = "watched_at"
)

// MarshalJSON writes the known fields over the preserved ones. Zero
// timestamps are omitted.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+4)
	for k, v := range e.Extra {
		out[k] = v
	}
	out[keyID] = e.ID
	if _, kept := e.Extra[keyTitle]; !kept || e.Title != "" {
		out[keyTitle] = e.Title
	}
	if !e.AddedAt.IsZero() {
		out[keyAddedAt] = e.AddedAt.UTC().Format(time.RFC3339)
	}
	if !e.WatchedAt.IsZero() {
		out[keyWatchedAt] = e.WatchedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads an entry object. Timestamps may be RFC 3339 strings or
// Unix seconds; any other value is kept verbatim in Extra. null is a no-op.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var entry Entry
	if v, ok := raw[keyID]; ok {
		if err := json.Unmarshal(v, &entry.ID); err != nil {
			return fmt.Errorf("entry id: %w", err)
		}
		delete(raw, keyID)
	}
	if v, ok := raw[keyTitle]; ok {
		// A non-string title stays in Extra and Title is left empty.
		if err := json.Unmarshal(v, &entry.Title); err == nil {
			delete(raw, keyTitle)
		}
	}
	for key, dst := range map[string]*time.Time{keyAddedAt: &entry.AddedAt, keyWatchedAt: &entry.WatchedAt} {
		v, ok := raw[key]
		if !ok {
			continue
		}
		t, err := parseTimestamp(v)
		if err != nil {
			continue
		}
		*dst = t
		delete(raw, key)
	}
	if len(raw) > 0 {
		entry.Extra = raw
	}

	*e = entry
	return nil
}

func parseTimestamp(v json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if s == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339, s)
	}

	var secs *float64
	if err := json.Unmarshal(v, &secs); err != nil {
		return time.Time{}, fmt.Errorf("timestamp must be a string or number")
	}
	if secs == nil {
		return time.Time{}, nil
	}
	whole, frac := math.Modf(*secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
}
