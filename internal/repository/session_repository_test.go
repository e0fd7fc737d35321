package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawing-service/internal/models"
)

func sessionRepositories(t *testing.T) map[string]struct {
	repo SessionRepository
	mr   *miniredis.Miniredis
} {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]struct {
		repo SessionRepository
		mr   *miniredis.Miniredis
	}{
		"memory": {repo: NewMemorySessionRepository()},
		"redis":  {repo: NewRedisSessionRepository(client), mr: mr},
	}
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	for name, tc := range sessionRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			session := &models.ViewerSession{
				ID:                "s1",
				Discipline:        "건축",
				SelectedIDs:       []string{"a", "b"},
				IsCompareMode:     true,
				CatalogGeneration: 3,
			}
			require.NoError(t, tc.repo.Save(ctx, session, time.Hour))
			assert.False(t, session.ExpiresAt.IsZero())

			got, err := tc.repo.Get(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, "건축", got.Discipline)
			assert.Equal(t, []string{"a", "b"}, got.SelectedIDs)
			assert.True(t, got.IsCompareMode)
			assert.Equal(t, uint64(3), got.CatalogGeneration)

			n, err := tc.repo.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			require.NoError(t, tc.repo.Delete(ctx, "s1"))
			_, err = tc.repo.Get(ctx, "s1")
			assert.True(t, errors.Is(err, ErrSessionNotFound))
		})
	}
}

func TestSessionRepository_UnknownSession(t *testing.T) {
	for name, tc := range sessionRepositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := tc.repo.Get(context.Background(), "nope")
			assert.True(t, errors.Is(err, ErrSessionNotFound))
		})
	}
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	session := &models.ViewerSession{ID: "s1", SelectedIDs: []string{"a"}}
	require.NoError(t, repo.Save(ctx, session, time.Hour))

	session.SelectedIDs[0] = "mutated"
	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	got.SelectedIDs[0] = "changed"

	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.SelectedIDs)
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &models.ViewerSession{ID: "old"}, time.Millisecond))
	require.NoError(t, repo.Save(ctx, &models.ViewerSession{ID: "live"}, time.Hour))
	time.Sleep(5 * time.Millisecond)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, repo.PurgeExpired())

	_, err = repo.Get(ctx, "old")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestRedisSessionRepository_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.ViewerSession{ID: "s1"}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("viewer:session:s1"))

	mr.FastForward(2 * time.Minute)
	_, err := repo.Get(ctx, "s1")
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestRedisSessionRepository_CorruptSession(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewRedisSessionRepository(client)
	require.NoError(t, mr.Set("viewer:session:s1", "{not json"))

	_, err := repo.Get(context.Background(), "s1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSessionNotFound))
	assert.Contains(t, err.Error(), "failed to decode session s1")
	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(errors.Cause(err), &syntaxErr))
}

func TestRedisSessionRepository_StoreFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewRedisSessionRepository(client)
	mr.Close()

	err := repo.Save(context.Background(), &models.ViewerSession{ID: "s1"}, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store session s1")
	assert.NotNil(t, errors.Cause(err))
}
