package dao

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/fast-note-client/internal/domain"

	"github.com/gookit/goutil/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepos(t *testing.T) map[string]domain.KVRepository {
	t.Helper()
	dir := t.TempDir()

	fileRepo, err := New(DatabaseConfig{Driver: DriverFile, Path: filepath.Join(dir, "session")}, nil)
	require.NoError(t, err)

	sqliteRepo, err := New(DatabaseConfig{Driver: DriverSqlite, Path: filepath.Join(dir, "db", "session.sqlite3"), TablePrefix: "fnc_"}, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = fileRepo.Close()
		_ = sqliteRepo.Close()
	})

	return map[string]domain.KVRepository{
		DriverFile:   fileRepo,
		DriverSqlite: sqliteRepo,
	}
}

func TestKVRepository(t *testing.T) {
	ctx := context.Background()

	for name, repo := range newRepos(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(ctx, domain.KeyUser)
			assert.True(t, errors.Is(err, domain.ErrKeyNotFound))

			require.NoError(t, repo.Set(ctx, domain.KeyUser, []byte(`{"id":1}`)))
			got, err := repo.Get(ctx, domain.KeyUser)
			require.NoError(t, err)
			assert.Equal(t, `{"id":1}`, string(got))

			// 覆盖写入
			require.NoError(t, repo.Set(ctx, domain.KeyUser, []byte(`{"id":2}`)))
			got, err = repo.Get(ctx, domain.KeyUser)
			require.NoError(t, err)
			assert.Equal(t, `{"id":2}`, string(got))

			require.NoError(t, repo.Set(ctx, domain.KeyCookies, []byte(`[]`)))
			keys, err := repo.Keys(ctx)
			require.NoError(t, err)
			dump.P(keys)
			assert.Equal(t, []string{domain.KeyCookies, domain.KeyUser}, keys)

			require.NoError(t, repo.Delete(ctx, domain.KeyUser))
			_, err = repo.Get(ctx, domain.KeyUser)
			assert.True(t, errors.Is(err, domain.ErrKeyNotFound))

			// 删除不存在的键不报错
			assert.NoError(t, repo.Delete(ctx, domain.KeyUser))
		})
	}
}

func TestFileKVRepositoryRejectsBadKeys(t *testing.T) {
	repo, err := NewFileKVRepository(t.TempDir(), nil)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Error(t, repo.Set(ctx, "../escape", []byte("x")))
	assert.Error(t, repo.Set(ctx, ".hidden", []byte("x")))
	_, err = repo.Get(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileKVRepositoryPermissions(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileKVRepository(dir, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Set(context.Background(), domain.KeyUser, []byte(`{}`)))
	info, err := os.Stat(filepath.Join(dir, "user.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(DatabaseConfig{Driver: "redis"}, nil)
	assert.Error(t, err)

	_, err = New(DatabaseConfig{Driver: DriverSqlite}, nil)
	assert.Error(t, err)
}
