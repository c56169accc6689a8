package adapters

import (
	"context"
	"testing"

	"delivery-client/internal/core/cache"
	"delivery-client/internal/features/session/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*CacheSessionRepository, cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return NewCacheSessionRepository(c), c
}

func TestCacheSessionRepository_RoundTrip(t *testing.T) {
	repo, _ := newRedisRepo(t)
	ctx := context.Background()

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, empty.Authenticated())

	err = repo.Save(ctx, domain.Session{Token: "tok", User: &domain.User{ID: 9, Name: "Ana"}})
	require.NoError(t, err)

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	require.NotNil(t, s.User)
	assert.Equal(t, "Ana", s.User.Name)

	require.NoError(t, repo.Clear(ctx))
	s, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User)
}

func TestCacheSessionRepository_CorruptProfile(t *testing.T) {
	repo, c := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, tokenKey, []byte("tok"), 0))
	require.NoError(t, c.Set(ctx, userKey, []byte("{not json"), 0))

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Nil(t, s.User)

	_, err = c.Get(ctx, userKey)
	assert.ErrorIs(t, err, cache.ErrNotFound, "corrupt profile is discarded")
}

func TestCacheSessionRepository_UndefinedProfile(t *testing.T) {
	repo, c := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, tokenKey, []byte("tok"), 0))
	require.NoError(t, c.Set(ctx, userKey, []byte("undefined"), 0))

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, s.Authenticated())
	assert.Nil(t, s.User)
}

func TestCacheSessionRepository_SaveWithoutUser(t *testing.T) {
	repo, c := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.Session{Token: "tok"}))
	_, err := c.Get(ctx, userKey)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
