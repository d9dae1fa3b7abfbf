// Package cart holds the client's in-progress, uncommitted slot selection.
package cart

import (
	"sort"

	"peony/internal/models"
)

// Cart is an ordered set of (date, time) selections. Order is always
// (date ascending, time ascending), recomputed on every mutation; positional
// removal operates on that sorted view. The cart does not re-validate slot
// availability: callers only offer Toggle for currently open times, and a
// selection must not be dropped just because its availability went stale.
type Cart struct {
	entries []models.CartEntry
}

// New builds a cart from existing entries, normalizing order and dropping
// duplicate pairs.
func New(entries []models.CartEntry) *Cart {
	c := &Cart{}
	for _, e := range entries {
		if c.indexOf(e.Date, e.Time) == -1 {
			c.entries = append(c.entries, e)
		}
	}
	c.resort()
	return c
}

// Toggle adds the pair if absent and removes it if present. Applying it
// twice with the same arguments restores the original set.
func (c *Cart) Toggle(date models.DateKey, time string) {
	if i := c.indexOf(date, time); i >= 0 {
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		return
	}
	c.entries = append(c.entries, models.CartEntry{Date: date, Time: time})
	c.resort()
}

// Remove deletes the entry at index in the sorted view. Out-of-range
// indexes are ignored.
func (c *Cart) Remove(index int) {
	if index < 0 || index >= len(c.entries) {
		return
	}
	c.entries = append(c.entries[:index], c.entries[index+1:]...)
}

// Contains reports whether the pair is currently selected.
func (c *Cart) Contains(date models.DateKey, time string) bool {
	return c.indexOf(date, time) >= 0
}

// Entries returns the sorted selections. The slice is a copy.
func (c *Cart) Entries() []models.CartEntry {
	return append([]models.CartEntry(nil), c.entries...)
}

// Len reports the number of selections.
func (c *Cart) Len() int { return len(c.entries) }

// Clear drops every selection.
func (c *Cart) Clear() { c.entries = nil }

func (c *Cart) indexOf(date models.DateKey, time string) int {
	for i, e := range c.entries {
		if e.Date == date && e.Time == time {
			return i
		}
	}
	return -1
}

func (c *Cart) resort() {
	sort.Slice(c.entries, func(i, j int) bool {
		return c.entries[i].Less(c.entries[j])
	})
}
