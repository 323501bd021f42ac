package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/packagebuilder/internal/render"
	"github.com/jask/packagebuilder/internal/service"
	"github.com/jask/packagebuilder/internal/storage"
	"github.com/jask/packagebuilder/internal/templates"
)

func testRuntime(t *testing.T) *runtime {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("PACKAGEBUILDER_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("PACKAGEBUILDER_EXPORT_DIR", filepath.Join(dir, "out"))

	rt, err := setup()
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestSetupWiresServices(t *testing.T) {
	rt := testRuntime(t)
	require.NotNil(t, rt.packages.Store)
	require.Equal(t, "usmc-spb-", rt.packages.Store.Prefix())
	require.Equal(t, rt.cfg.Export.Dir, rt.export.Dir)
	require.FileExists(t, rt.cfg.Log.Path)

	_, ok := rt.registry.Template("warrant_officer")
	require.True(t, ok)
}

func TestResolvePackage(t *testing.T) {
	rt := testRuntime(t)
	ctx := context.Background()

	a, err := rt.packages.Create(ctx, "warrant_officer", templates.ApplicantInfo{Name: "Doe"})
	require.NoError(t, err)
	b, err := rt.packages.Create(ctx, "recruiting", templates.ApplicantInfo{Name: "Roe"})
	require.NoError(t, err)

	got, err := resolvePackage(ctx, rt, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	short := strings.TrimPrefix(b.ID, storage.PackageKeyPrefix)[:8]
	got, err = resolvePackage(ctx, rt, short)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)

	_, err = resolvePackage(ctx, rt, storage.PackageKeyPrefix)
	require.ErrorContains(t, err, "ambiguous")

	_, err = resolvePackage(ctx, rt, "zzzz")
	require.ErrorIs(t, err, service.ErrPackageNotFound)

	_, err = resolvePackage(ctx, rt, " ")
	require.Error(t, err)
}

func TestIsKind(t *testing.T) {
	for _, k := range render.Kinds {
		require.True(t, isKind(k))
	}
	require.False(t, isKind("memo"))
}
