// Package ui renders navigation results and runs user dialogs.
package ui

import "errors"

// ErrCancelled is returned by dialogs the user aborted.
var ErrCancelled = errors.New("cancelled")

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// MenuEntry is a secondary action offered on an item.
type MenuEntry struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Item is one navigable entry of a listing. URL is the request that opens it.
type Item struct {
	Label       string      `json:"label"`
	URL         string      `json:"url"`
	Folder      bool        `json:"folder"`
	Playable    bool        `json:"playable,omitempty"`
	ContextMenu []MenuEntry `json:"context_menu,omitempty"`
}

// Presenter is everything navigation handlers need from the user interface.
type Presenter interface {
	SetCategory(title string)
	AddItem(item Item)
	// EndListing finishes the current listing. succeeded is false when the
	// listing was abandoned.
	EndListing(succeeded bool)
	Notify(level Level, message string)
	// Select asks the user to pick one of labels and returns its index, or
	// ErrCancelled.
	Select(heading string, labels []string) (int, error)
	// Input asks for free text; ErrCancelled when nothing was entered.
	Input(prompt string) (string, error)
	// Refresh asks for the current listing to be shown again.
	Refresh()
}
