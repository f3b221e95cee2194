// Package player launches external media players. All invocations use
// exec.CommandContext with explicit argument slices; nothing goes through a
// shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
)

// Player plays a resolved stream URL.
type Player interface {
	// Play blocks until the player exits.
	Play(ctx context.Context, streamURL, title string) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name, ignoring case. Unknown names get mpv.
func New(name string) Player {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{}
	}
}

// validateStreamURL rejects anything a player could read as an option or a
// local file.
func validateStreamURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed stream URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported stream URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("stream URL has no host")
	}
	return nil
}

// run starts bin attached to the terminal. A non-zero exit is how players
// report a user quit, so it is not an error.
func run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return nil
		}
		return fmt.Errorf("running %s: %w", bin, err)
	}
	return nil
}
