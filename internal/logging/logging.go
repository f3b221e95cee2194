// Package logging builds the slog logger shared by all components.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log records go.
type Options struct {
	// File, when set, receives JSON records through a size-rotated writer.
	File  string
	Debug bool
}

// Setup returns a logger for one invocation. Without a log file, records go
// to stderr at warn level (debug level with Debug), so normal listings stay
// quiet.
func Setup(opts Options, stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}

	if opts.File != "" {
		path := expandHome(opts.File)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err == nil {
			fileLevel := slog.LevelInfo
			if opts.Debug {
				fileLevel = slog.LevelDebug
			}
			w := &lumberjack.Logger{
				Filename:   path,
				MaxSize:    5, // megabytes
				MaxBackups: 3,
				MaxAge:     30,
			}
			return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: fileLevel})).
				With("app", "streambox")
		}
	}

	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("app", "streambox")
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
