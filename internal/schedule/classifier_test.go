package schedule

import (
	"testing"

	"peony/internal/config"
	"peony/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeasonConfig() config.SeasonConfig {
	return config.SeasonConfig{
		Year:        2026,
		Months:      []int{1, 2},
		ReleaseDate: "2026-02-20",
		NormalLine: []config.DayWindow{
			{Month: 1, From: 1, To: 13},
			{Month: 2, From: 23, To: 31},
		},
		Blackout: []config.DayWindow{
			{Month: 2, From: 14, To: 22},
		},
		RestrictedSurcharge: []config.DayWindow{
			{Month: 2, From: 1, To: 13},
		},
		SurchargeOnly: []config.DayWindow{
			{Month: 1, From: 14, To: 31},
		},
	}
}

func testSlotsConfig() config.SlotsConfig {
	return config.SlotsConfig{Template: []string{"11:00", "13:30", "15:00", "17:30", "19:00"}}
}

func newTestSeason(t *testing.T) *Season {
	t.Helper()
	season, err := NewSeason(testSeasonConfig(), testSlotsConfig())
	require.NoError(t, err)
	return season
}

func TestSeasonClassify(t *testing.T) {
	season := newTestSeason(t)

	tests := []struct {
		date models.DateKey
		want models.Tier
	}{
		{"2026-01-01", models.TierNormalLine},
		{"2026-01-13", models.TierNormalLine},
		{"2026-01-14", models.TierSurchargeOnly},
		{"2026-01-21", models.TierSurchargeOnly},
		{"2026-01-31", models.TierSurchargeOnly},
		{"2026-02-01", models.TierRestrictedSurcharge},
		{"2026-02-13", models.TierRestrictedSurcharge},
		{"2026-02-14", models.TierBlackout},
		{"2026-02-19", models.TierBlackout},
		{"2026-02-20", models.TierOpenBookingDay},
		{"2026-02-21", models.TierBlackout},
		{"2026-02-22", models.TierBlackout},
		{"2026-02-23", models.TierNormalLine},
		{"2026-02-28", models.TierNormalLine},
	}

	for _, tt := range tests {
		t.Run(string(tt.date), func(t *testing.T) {
			got, err := season.Classify(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeasonClassifyOutOfSeason(t *testing.T) {
	season := newTestSeason(t)

	for _, date := range []models.DateKey{"2025-12-31", "2026-03-01", "2027-01-05"} {
		t.Run(string(date), func(t *testing.T) {
			_, err := season.Classify(date)
			assert.ErrorIs(t, err, ErrOutOfSeason)
		})
	}

	t.Run("Malformed", func(t *testing.T) {
		_, err := season.Classify("not-a-date")
		assert.ErrorIs(t, err, ErrOutOfSeason)
	})
}

func TestSeasonReleaseDayPrecedence(t *testing.T) {
	// The release day sits inside the blackout window; the release rule
	// must win because it is evaluated first.
	season := newTestSeason(t)

	tier, err := season.Classify("2026-02-20")
	require.NoError(t, err)
	assert.Equal(t, models.TierOpenBookingDay, tier)
	assert.Equal(t, models.DateKey("2026-02-20"), season.ReleaseDate())
}

func TestNewSeasonRejectsForeignReleaseDate(t *testing.T) {
	cfg := testSeasonConfig()
	cfg.ReleaseDate = "2026-03-20"
	_, err := NewSeason(cfg, testSlotsConfig())
	assert.Error(t, err)

	cfg.ReleaseDate = "garbage"
	_, err = NewSeason(cfg, testSlotsConfig())
	assert.Error(t, err)
}

func TestSeasonDates(t *testing.T) {
	season := newTestSeason(t)

	dates := season.Dates()
	// 31 January days plus 28 February days in 2026.
	require.Len(t, dates, 59)
	assert.Equal(t, models.DateKey("2026-01-01"), dates[0])
	assert.Equal(t, models.DateKey("2026-02-28"), dates[len(dates)-1])
	assert.NotContains(t, dates, models.DateKey("2026-02-29"))
}
