package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/packagebuilder/internal/database"
	"github.com/jask/packagebuilder/internal/database/repository"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEntryUpsertSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEntryRepo(setupDB(t))

	changed, err := repo.Upsert(ctx, repository.Entry{Key: "a", Value: "1", Checksum: "c1"})
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = repo.Upsert(ctx, repository.Entry{Key: "a", Value: "1", Checksum: "c1"})
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = repo.Upsert(ctx, repository.Entry{Key: "a", Value: "2", Checksum: "c2"})
	require.NoError(t, err)
	require.True(t, changed)

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "2", got.Value)
	require.False(t, got.UpdatedAt.IsZero())

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestEntryPrefixOperations(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEntryRepo(setupDB(t))

	for _, k := range []string{"app-package-1", "app-package-2", "app-theme", "other_key"} {
		_, err := repo.Upsert(ctx, repository.Entry{Key: k, Value: "{}", Checksum: k})
		require.NoError(t, err)
	}

	list, err := repo.ListPrefix(ctx, "app-package-")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "app-package-1", list[0].Key)

	// underscore is literal, not a LIKE wildcard
	n, err := repo.Count(ctx, "other_")
	require.NoError(t, err)
	require.Equal(t, 1, n)
	n, err = repo.Count(ctx, "otherx")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	removed, err := repo.DeletePrefix(ctx, "app-")
	require.NoError(t, err)
	require.EqualValues(t, 3, removed)

	require.NoError(t, repo.Delete(ctx, "other_key"))
	require.NoError(t, repo.Delete(ctx, "other_key"))
	n, err = repo.Count(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestEntryUpsertAll(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewEntryRepo(setupDB(t))

	_, err := repo.Upsert(ctx, repository.Entry{Key: "a", Value: "1", Checksum: "c1"})
	require.NoError(t, err)

	changed, err := repo.UpsertAll(ctx, []repository.Entry{
		{Key: "a", Value: "1", Checksum: "c1"},
		{Key: "b", Value: "2", Checksum: "c2"},
		{Key: "c", Value: "3", Checksum: "c3"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.UpsertAll(cancelled, []repository.Entry{{Key: "d", Value: "4", Checksum: "c4"}})
	require.Error(t, err)

	n, err := repo.Count(ctx, "")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, database.RunMigrations(path))
	require.NoError(t, database.RunMigrations(path))

	v, dirty, err := database.SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 2, v)
}
