package cart

import (
	"testing"

	"peony/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCartToggle(t *testing.T) {
	c := New(nil)

	t.Run("AddAndRemove", func(t *testing.T) {
		c.Toggle("2026-01-21", "11:00")
		assert.True(t, c.Contains("2026-01-21", "11:00"))
		assert.Equal(t, 1, c.Len())

		// Toggling the same pair again is an involution: back to empty.
		c.Toggle("2026-01-21", "11:00")
		assert.False(t, c.Contains("2026-01-21", "11:00"))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("SortedOrder", func(t *testing.T) {
		c.Toggle("2026-01-22", "15:00")
		c.Toggle("2026-01-21", "13:30")
		c.Toggle("2026-01-21", "11:00")

		entries := c.Entries()
		assert.Equal(t, []models.CartEntry{
			{Date: "2026-01-21", Time: "11:00"},
			{Date: "2026-01-21", Time: "13:30"},
			{Date: "2026-01-22", Time: "15:00"},
		}, entries)
	})
}

func TestCartNewDeduplicates(t *testing.T) {
	c := New([]models.CartEntry{
		{Date: "2026-01-22", Time: "15:00"},
		{Date: "2026-01-21", Time: "11:00"},
		{Date: "2026-01-22", Time: "15:00"},
	})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, models.CartEntry{Date: "2026-01-21", Time: "11:00"}, c.Entries()[0])
}

func TestCartRemove(t *testing.T) {
	c := New([]models.CartEntry{
		{Date: "2026-01-21", Time: "11:00"},
		{Date: "2026-01-21", Time: "13:30"},
		{Date: "2026-01-22", Time: "15:00"},
	})

	c.Remove(1)
	assert.Equal(t, []models.CartEntry{
		{Date: "2026-01-21", Time: "11:00"},
		{Date: "2026-01-22", Time: "15:00"},
	}, c.Entries())

	// Out-of-range indexes are ignored.
	c.Remove(-1)
	c.Remove(5)
	assert.Equal(t, 2, c.Len())
}

func TestCartEntriesIsACopy(t *testing.T) {
	c := New([]models.CartEntry{{Date: "2026-01-21", Time: "11:00"}})

	entries := c.Entries()
	entries[0].Time = "19:00"

	assert.True(t, c.Contains("2026-01-21", "11:00"))
}

func TestCartClear(t *testing.T) {
	c := New([]models.CartEntry{
		{Date: "2026-01-21", Time: "11:00"},
		{Date: "2026-01-22", Time: "15:00"},
	})
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Entries())
}
