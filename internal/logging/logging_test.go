package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupStderrLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(Options{}, &buf)
	logger.Info("quiet")
	logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet", "info records should be dropped without debug")
	assert.Contains(t, buf.String(), "loud", "warn records should be written")

	buf.Reset()
	debug := Setup(Options{Debug: true}, &buf)
	assert.True(t, debug.Enabled(context.Background(), slog.LevelDebug))
}

func TestSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "streambox.log")

	var stderr bytes.Buffer
	logger := Setup(Options{File: path}, &stderr)
	logger.Info("written to file", "action", "hub")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action":"hub"`, "log file should hold a JSON record")
	assert.Zero(t, stderr.Len(), "stderr should stay empty when logging to a file, got %q", stderr.String())
}
