package player

import (
	"context"
	"os/exec"
)

// Generic implements Player for players like iina and celluloid that accept
// mpv-compatible arguments.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool {
	_, err := exec.LookPath(g.name)
	return err == nil
}

func (g *Generic) Play(ctx context.Context, streamURL, title string) error {
	if err := validateStreamURL(streamURL); err != nil {
		return err
	}
	return run(ctx, g.name, mpvArgs(streamURL, title))
}
