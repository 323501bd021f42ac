package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/packagebuilder/internal/tracker"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "packages.json")
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	pkgs := []*tracker.Package{
		{ID: "package-a", Type: "recruiting", Applicant: tracker.Applicant{Name: "Doe"}, LastUpdated: now},
		{ID: ""},
	}
	require.NoError(t, Save(path, pkgs, now))

	_, err := os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Doe", got[0].Applicant.Name)
	require.Equal(t, now, got[0].LastUpdated)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version":9,"packages":[]}`), 0o600))
	_, err = Load(future)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}
