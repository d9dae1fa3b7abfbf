package events

import (
	"testing"

	"peony/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublish(t *testing.T) {
	bus := NewBus()

	var first, second models.OverrideMap
	bus.Subscribe(func(m models.OverrideMap) { first = m })
	bus.Subscribe(func(m models.OverrideMap) { second = m })
	assert.Equal(t, 2, bus.Len())

	snapshot := models.OverrideMap{
		"2026-01-21": {Date: "2026-01-21", Slots: []models.Slot{{Time: "11:00", Available: true}}},
	}
	bus.Publish(snapshot)

	require.Len(t, first, 1)
	require.Len(t, second, 1)

	// Each handler gets its own clone: mutating one delivery must not leak
	// into the other or into the published map.
	first["2026-01-21"].Slots[0].Available = false
	assert.True(t, second["2026-01-21"].Slots[0].Available)
	assert.True(t, snapshot["2026-01-21"].Slots[0].Available)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsubscribe := bus.Subscribe(func(models.OverrideMap) { calls++ })

	bus.Publish(models.OverrideMap{})
	assert.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe() // idempotent
	assert.Equal(t, 0, bus.Len())

	bus.Publish(models.OverrideMap{})
	assert.Equal(t, 1, calls)
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() { bus.Publish(models.OverrideMap{}) })
}
