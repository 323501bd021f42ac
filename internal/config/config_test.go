package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PACKAGEBUILDER_CONFIG", filepath.Join(dir, "missing.toml"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, ".local", "share", "packagebuilder", "packagebuilder.db"), c.Database.Path)
	require.Equal(t, "usmc-spb-", c.Storage.Prefix)
	require.Equal(t, "dark", c.UI.Theme)
	require.Equal(t, "info", c.Log.Level)

	loc, err := c.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

func TestSaveRoundTripAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "config.toml")
	t.Setenv("HOME", dir)
	t.Setenv("PACKAGEBUILDER_CONFIG", path)

	c, err := Load()
	require.NoError(t, err)
	c.UI.Theme = "night"
	c.UI.Timezone = "UTC"
	c.Export.Dir = filepath.Join(dir, "out")
	require.NoError(t, Save(c))

	_, err = os.Stat(path)
	require.NoError(t, err)

	t.Setenv("PACKAGEBUILDER_LOG_LEVEL", "debug")
	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "night", got.UI.Theme)
	require.Equal(t, filepath.Join(dir, "out"), got.Export.Dir)
	require.Equal(t, "debug", got.Log.Level)

	loc, err := got.Location()
	require.NoError(t, err)
	require.Equal(t, "UTC", loc.String())

	got.UI.Timezone = "Mars/Olympus"
	_, err = got.Location()
	require.Error(t, err)
}
