package database

import (
	"context"
	"path/filepath"
	"testing"

	"peony/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testRecord(date models.DateKey) *models.OverrideRecord {
	return &models.OverrideRecord{
		Date: date,
		Slots: []models.Slot{
			{Time: "11:00", Available: true},
			{Time: "13:30", Available: false},
			{Time: "15:00", Available: true},
		},
	}
}

func TestPutAndGetOverride(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	saved, err := db.PutOverride(ctx, testRecord("2026-01-21"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.Version)
	assert.False(t, saved.LastUpdated.IsZero())

	got, err := db.GetOverride(ctx, "2026-01-21")
	require.NoError(t, err)
	assert.Equal(t, models.DateKey("2026-01-21"), got.Date)
	assert.Equal(t, saved.Version, got.Version)
	assert.Equal(t, []string{"11:00", "15:00"}, got.OpenTimes())
	assert.False(t, got.IsFullyBooked)
}

func TestGetOverrideNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetOverride(context.Background(), "2026-01-21")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutOverrideVersioning(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("UnconditionalWritesBumpVersion", func(t *testing.T) {
		first, err := db.PutOverride(ctx, testRecord("2026-01-21"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.Version)

		second, err := db.PutOverride(ctx, testRecord("2026-01-21"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.Version)
	})

	t.Run("StaleConditionalWriteRejected", func(t *testing.T) {
		rec := testRecord("2026-01-21")
		rec.Version = 1 // stored is now 2
		_, err := db.PutOverride(ctx, rec)
		assert.ErrorIs(t, err, ErrStaleWrite)

		// The stored record is untouched.
		got, err := db.GetOverride(ctx, "2026-01-21")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("MatchingConditionalWriteSucceeds", func(t *testing.T) {
		rec := testRecord("2026-01-21")
		rec.Version = 2
		rec.IsFullyBooked = true
		saved, err := db.PutOverride(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, int64(3), saved.Version)

		got, err := db.GetOverride(ctx, "2026-01-21")
		require.NoError(t, err)
		assert.True(t, got.IsFullyBooked)
	})

	t.Run("ConditionalCreateOnMissingRowRejected", func(t *testing.T) {
		rec := testRecord("2026-02-05")
		rec.Version = 7
		_, err := db.PutOverride(ctx, rec)
		assert.ErrorIs(t, err, ErrStaleWrite)
	})
}

func TestListOverrides(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.PutOverride(ctx, testRecord("2026-01-22"))
	require.NoError(t, err)
	_, err = db.PutOverride(ctx, testRecord("2026-01-21"))
	require.NoError(t, err)

	all, err := db.ListOverrides(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Contains(t, all, models.DateKey("2026-01-21"))
	assert.Contains(t, all, models.DateKey("2026-01-22"))
}

func TestListOverridesEmpty(t *testing.T) {
	db := newTestDB(t)

	all, err := db.ListOverrides(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
