package repository

import (
	"context"
	"testing"
	"time"

	"peony/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailoverSessionRepository(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("PrimaryHealthy", func(t *testing.T) {
		primary := NewMemorySessionRepository(time.Hour)
		fallback := NewMemorySessionRepository(time.Hour)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		session := &models.Session{ID: "abc"}
		require.NoError(t, repo.SetSession(ctx, session))

		// The write went to the primary, not the fallback.
		got, err := primary.GetSession(ctx, "abc")
		require.NoError(t, err)
		assert.NotNil(t, got)

		got, err = fallback.GetSession(ctx, "abc")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("FallsBackWhenPrimaryFails", func(t *testing.T) {
		// A redis repository without a client fails every call.
		primary := NewRedisSessionRepository(nil, "peony", time.Hour)
		fallback := NewMemorySessionRepository(time.Hour)
		repo := NewFailoverSessionRepository(primary, fallback, &logger)

		session := &models.Session{ID: "abc", Name: "林小美"}
		require.NoError(t, repo.SetSession(ctx, session))

		got, err := repo.GetSession(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, session, got)

		allowed, err := repo.CheckRateLimit(ctx, "abc", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		require.NoError(t, repo.ClearSession(ctx, "abc"))
		got, err = repo.GetSession(ctx, "abc")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
