package repository

import (
	"context"
	"testing"
	"time"

	"peony/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRepo(t *testing.T) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSessionRepository(client, "peony", time.Hour), s
}

func TestRedisSessionRepository(t *testing.T) {
	repo, s := newTestRedisRepo(t)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		session := &models.Session{
			ID:      "abc",
			Name:    "林小美",
			Phone:   "0912345678",
			Entries: []models.CartEntry{{Date: "2026-01-21", Time: "11:00"}},
		}
		require.NoError(t, repo.SetSession(ctx, session))

		got, err := repo.GetSession(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("MissingSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SessionExpires", func(t *testing.T) {
		require.NoError(t, repo.SetSession(ctx, &models.Session{ID: "ttl"}))
		s.FastForward(2 * time.Hour)
		got, err := repo.GetSession(ctx, "ttl")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearSession", func(t *testing.T) {
		require.NoError(t, repo.SetSession(ctx, &models.Session{ID: "gone"}))
		require.NoError(t, repo.ClearSession(ctx, "gone"))
		got, err := repo.GetSession(ctx, "gone")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := repo.CheckRateLimit(ctx, "sess-1", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}
		allowed, err := repo.CheckRateLimit(ctx, "sess-1", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		s.FastForward(2 * time.Minute)
		allowed, err = repo.CheckRateLimit(ctx, "sess-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisSessionRepositoryNilClient(t *testing.T) {
	repo := NewRedisSessionRepository(nil, "peony", time.Hour)
	ctx := context.Background()

	_, err := repo.GetSession(ctx, "abc")
	assert.Error(t, err)
	assert.Error(t, repo.SetSession(ctx, &models.Session{ID: "abc"}))
	assert.Error(t, repo.ClearSession(ctx, "abc"))
	_, err = repo.CheckRateLimit(ctx, "abc", 1, time.Second)
	assert.Error(t, err)
}
