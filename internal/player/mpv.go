package player

import (
	"context"
	"os/exec"
)

// MPV implements Player for mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath("mpv")
	return err == nil
}

// Play launches mpv with the stream.
func (m *MPV) Play(ctx context.Context, streamURL, title string) error {
	if err := validateStreamURL(streamURL); err != nil {
		return err
	}
	return run(ctx, "mpv", mpvArgs(streamURL, title))
}

// mpvArgs is shared with players that accept mpv flags.
func mpvArgs(streamURL, title string) []string {
	args := []string{"--really-quiet"}
	if title != "" {
		args = append(args, "--force-media-title="+title)
	}
	// "--" ends option parsing before the remote URL
	return append(args, "--", streamURL)
}
