package repository

import (
	"context"
	"testing"
	"time"

	"peony/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionRepository(t *testing.T) {
	repo := NewMemorySessionRepository(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGetSession", func(t *testing.T) {
		session := &models.Session{ID: "abc", Name: "林小美"}
		err := repo.SetSession(ctx, session)
		require.NoError(t, err)

		got, err := repo.GetSession(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, session, got)
	})

	t.Run("MissingSession", func(t *testing.T) {
		got, err := repo.GetSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ClearSession", func(t *testing.T) {
		err := repo.ClearSession(ctx, "abc")
		require.NoError(t, err)
		got, _ := repo.GetSession(ctx, "abc")
		assert.Nil(t, got)
	})

	t.Run("RateLimit", func(t *testing.T) {
		allowed, _ := repo.CheckRateLimit(ctx, "sess-1", 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, "sess-1", 2, time.Second)
		assert.True(t, allowed)
		allowed, _ = repo.CheckRateLimit(ctx, "sess-1", 2, time.Second)
		assert.False(t, allowed)

		// Wait for expiry
		time.Sleep(time.Second + 10*time.Millisecond)
		allowed, _ = repo.CheckRateLimit(ctx, "sess-1", 2, time.Second)
		assert.True(t, allowed)
	})
}

func TestMemorySessionRepositoryTTL(t *testing.T) {
	repo := NewMemorySessionRepository(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.SetSession(ctx, &models.Session{ID: "short"}))

	got, err := repo.GetSession(ctx, "short")
	require.NoError(t, err)
	assert.NotNil(t, got)

	time.Sleep(80 * time.Millisecond)
	got, err = repo.GetSession(ctx, "short")
	require.NoError(t, err)
	assert.Nil(t, got)
}
