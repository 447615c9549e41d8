package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/haierkeys/fast-note-client/internal/dao"
	"github.com/haierkeys/fast-note-client/internal/domain"
	"github.com/haierkeys/fast-note-client/pkg/code"
	apperrors "github.com/haierkeys/fast-note-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newRepo(t *testing.T) domain.KVRepository {
	t.Helper()
	repo, err := dao.New(dao.DatabaseConfig{Driver: dao.DriverFile, Path: filepath.Join(t.TempDir(), "session")}, nil)
	require.NoError(t, err)
	return repo
}

func TestRestoreEmpty(t *testing.T) {
	s := New(newRepo(t), nil)
	assert.True(t, s.Snapshot().Loading)

	require.NoError(t, s.Restore(context.Background()))
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
	assert.False(t, s.IsLoggedIn())
}

func TestLoginSurvivesRestart(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var u domain.User
	require.NoError(t, u.UnmarshalJSON([]byte(`{"id":5,"email":"a@b.io","plan":"pro"}`)))

	s := New(repo, nil)
	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.Login(ctx, &u))
	assert.True(t, s.IsLoggedIn())

	restarted := New(repo, nil)
	require.NoError(t, restarted.Restore(ctx))
	snap := restarted.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, int64(5), snap.User.ID)
	assert.Equal(t, "a@b.io", snap.User.Email)
	assert.Equal(t, "pro", snap.User.Extra()["plan"])
}

func TestLogoutClearsBoth(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	s := New(repo, nil)
	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.Login(ctx, &domain.User{ID: 1, Email: "a@b.io"}))
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.IsLoggedIn())
	_, err := repo.Get(ctx, domain.KeyUser)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRestoreMalformed(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, domain.KeyUser, []byte("{not json")))

	core, logs := observer.New(zap.WarnLevel)
	s := New(repo, zap.New(core))
	require.NoError(t, s.Restore(ctx))

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Nil(t, snap.User)
	assert.Equal(t, 1, logs.Len())

	_, err := repo.Get(ctx, domain.KeyUser)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRestoreRejectsUnusableID(t *testing.T) {
	for name, stored := range map[string]string{
		"missing id":    `{"email":"a@b.io"}`,
		"zero id":       `{"id":0,"email":"a@b.io"}`,
		"fractional id": `{"id":1.9}`,
	} {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()
			require.NoError(t, repo.Set(ctx, domain.KeyUser, []byte(stored)))

			core, logs := observer.New(zap.WarnLevel)
			s := New(repo, zap.New(core))
			require.NoError(t, s.Restore(ctx))

			assert.False(t, s.IsLoggedIn())
			assert.Equal(t, int64(0), s.Snapshot().UserID())
			assert.Equal(t, 1, logs.Len())

			_, err := repo.Get(ctx, domain.KeyUser)
			assert.ErrorIs(t, err, domain.ErrKeyNotFound)
		})
	}
}

func TestLoginRejectsUserWithoutID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	s := New(repo, nil)
	require.NoError(t, s.Restore(ctx))

	err := s.Login(ctx, &domain.User{Email: "a@b.io"})
	assert.True(t, apperrors.Is(err, code.ErrorInvalidParams))
	assert.False(t, s.IsLoggedIn())

	_, err = repo.Get(ctx, domain.KeyUser)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

type failingRepo struct {
	domain.KVRepository
}

func (failingRepo) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingRepo) Set(context.Context, string, []byte) error   { return errors.New("disk gone") }

func TestStorageErrors(t *testing.T) {
	ctx := context.Background()
	s := New(failingRepo{}, nil)

	err := s.Restore(ctx)
	assert.True(t, apperrors.Is(err, code.ErrorSessionStore))
	assert.False(t, s.Snapshot().Loading)

	// 持久化失败时内存中的用户仍然发布
	err = s.Login(ctx, &domain.User{ID: 1})
	assert.True(t, apperrors.Is(err, code.ErrorSessionStore))
	assert.True(t, s.IsLoggedIn())

	assert.Error(t, s.Login(ctx, nil))
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	s := New(newRepo(t), nil)

	var got []domain.Session
	cancel := s.Subscribe(func(sess domain.Session) {
		got = append(got, sess)
	})

	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.Login(ctx, &domain.User{ID: 9}))

	// 快照互不影响
	require.Len(t, got, 2)
	got[1].User.Email = "changed"
	assert.Equal(t, "", s.Snapshot().User.Email)

	cancel()
	cancel()
	require.NoError(t, s.Logout(ctx))

	require.Len(t, got, 2)
	assert.Nil(t, got[0].User)
	assert.Equal(t, int64(9), got[1].UserID())
}
