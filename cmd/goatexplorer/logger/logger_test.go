package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	path, err := Init(Options{})
	require.NoError(t, err)
	require.Empty(t, path)
	require.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Init(Options{Enabled: true, LogDir: dir, Level: slog.LevelDebug})
	require.NoError(t, err)
	t.Cleanup(func() { L = slog.New(slog.DiscardHandler) })

	Debug("hello", "k", 1)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	old := filepath.Join(dir, logPrefix+"2025-01-01"+logSuffix)
	recent := filepath.Join(dir, logPrefix+"2025-02-20"+logSuffix)
	other := filepath.Join(dir, "unrelated.log")
	for _, p := range []string{old, recent, other} {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	cleanOldLogs(dir, now)

	require.NoFileExists(t, old)
	require.FileExists(t, recent)
	require.FileExists(t, other)
}
