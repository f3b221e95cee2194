package player

import (
	"context"
	"os/exec"
)

// VLC implements Player for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

// Play launches VLC and exits it when playback ends.
func (v *VLC) Play(ctx context.Context, streamURL, title string) error {
	if err := validateStreamURL(streamURL); err != nil {
		return err
	}
	return run(ctx, "vlc", vlcArgs(streamURL, title))
}

func vlcArgs(streamURL, title string) []string {
	args := []string{"--play-and-exit"}
	if title != "" {
		args = append(args, "--meta-title", title)
	}
	return append(args, "--", streamURL)
}
