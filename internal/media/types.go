// Package media defines shared types for the streambox application.
package media

import (
	"fmt"
	"strings"
)

// MovieSummary is the listing projection returned by search and category endpoints.
type MovieSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// MovieDetail is the detail projection of a single movie.
type MovieDetail struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Stream is one playable option for a movie.
type Stream struct {
	ID            string
	VideoCodec    string
	VideoQuality  string
	AudioCodec    string
	AudioChannels int
	AudioLanguage string
}

// Label returns a human-readable description for stream selection,
// e.g. "1080p | H264 | AAC 2ch | cs". Falls back to the ID.
func (s Stream) Label() string {
	var parts []string
	if s.VideoQuality != "" {
		parts = append(parts, s.VideoQuality)
	}
	if s.VideoCodec != "" {
		parts = append(parts, s.VideoCodec)
	}
	if s.AudioCodec != "" {
		audio := s.AudioCodec
		if s.AudioChannels > 0 {
			audio += fmt.Sprintf(" %dch", s.AudioChannels)
		}
		parts = append(parts, audio)
	}
	if s.AudioLanguage != "" {
		parts = append(parts, s.AudioLanguage)
	}
	if len(parts) == 0 {
		return s.ID
	}
	return strings.Join(parts, " | ")
}

// Page is one page of a paginated listing. Page and PageCount are 1-based.
type Page[T any] struct {
	Items     []T
	Total     int
	Page      int
	PageCount int
}

// HasNext reports whether another page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Page < p.PageCount
}

// User is the account returned by /user/me.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// DisplayName returns the user's full name, or the email when no name is set.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
