package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Listing is a finished listing as rendered by Terminal.
type Listing struct {
	Category  string `json:"category,omitempty"`
	Items     []Item `json:"items"`
	Succeeded bool   `json:"succeeded"`
}

// Terminal is a Presenter writing listings to out and notifications to errOut.
type Terminal struct {
	out    io.Writer
	errOut io.Writer

	json  bool
	quiet bool

	selectFn func(prompt string, labels []string) (int, error)
	inputFn  func(prompt string) (string, error)

	category string
	items    []Item
	listing  *Listing
	refresh  bool
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithJSON renders listings as JSON documents.
func WithJSON() TerminalOption {
	return func(t *Terminal) { t.json = true }
}

// WithoutOutput collects listings without printing them.
func WithoutOutput() TerminalOption {
	return func(t *Terminal) { t.quiet = true }
}

// WithDialogs replaces the fzf dialogs.
func WithDialogs(selectFn func(string, []string) (int, error), inputFn func(string) (string, error)) TerminalOption {
	return func(t *Terminal) {
		t.selectFn = selectFn
		t.inputFn = inputFn
	}
}

// NewTerminal creates a terminal presenter.
func NewTerminal(out, errOut io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		out:      out,
		errOut:   errOut,
		selectFn: FzfSelect,
		inputFn:  FzfInput,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) SetCategory(title string) { t.category = title }

func (t *Terminal) AddItem(item Item) { t.items = append(t.items, item) }

// EndListing renders the collected items. An abandoned listing prints nothing.
func (t *Terminal) EndListing(succeeded bool) {
	t.listing = &Listing{Category: t.category, Items: t.items, Succeeded: succeeded}
	if t.listing.Items == nil {
		t.listing.Items = []Item{}
	}
	t.category = ""
	t.items = nil

	if t.quiet || !succeeded {
		return
	}
	if t.json {
		enc := json.NewEncoder(t.out)
		enc.SetIndent("", "  ")
		enc.Encode(t.listing)
		return
	}
	t.renderText(t.listing)
}

func (t *Terminal) renderText(l *Listing) {
	if l.Category != "" {
		fmt.Fprintln(t.out, categoryStyle.Render(l.Category))
	}
	for _, item := range l.Items {
		label := item.Label
		switch {
		case item.Playable:
			label = "> " + label
		case item.Folder:
			label = folderStyle.Render(label + "/")
		}
		fmt.Fprintf(t.out, "%s  %s\n", label, urlStyle.Render(item.URL))
		for _, entry := range item.ContextMenu {
			fmt.Fprintf(t.out, "    %s  %s\n", entry.Label, urlStyle.Render(entry.URL))
		}
	}
}

// Notify writes a one-line notification to errOut.
func (t *Terminal) Notify(level Level, message string) {
	prefix := levelStyle(level).Render(strings.ToUpper(level.String()))
	fmt.Fprintf(t.errOut, "%s %s\n", prefix, message)
}

func (t *Terminal) Select(heading string, labels []string) (int, error) {
	return t.selectFn(heading, labels)
}

func (t *Terminal) Input(prompt string) (string, error) {
	return t.inputFn(prompt)
}

func (t *Terminal) Refresh() { t.refresh = true }

// Listing returns the last finished listing, or nil when none was ended.
func (t *Terminal) Listing() *Listing { return t.listing }

// RefreshRequested reports whether a handler asked to show the previous
// listing again.
func (t *Terminal) RefreshRequested() bool { return t.refresh }

var _ Presenter = (*Terminal)(nil)
