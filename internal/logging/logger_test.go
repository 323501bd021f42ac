package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := New(path, "debug")
	require.NoError(t, err)
	l.Debug("first", "id", "package-1")
	require.NoError(t, l.Close())

	l, err = New(path, "warn")
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("second")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, "msg=first id=package-1")
	require.Contains(t, out, "msg=second")
	require.NotContains(t, out, "hidden")
	require.Equal(t, 2, strings.Count(out, "\n"))

	_, err = New(path, "loud")
	require.Error(t, err)
	require.NoError(t, (*Logger)(nil).Close())
}
