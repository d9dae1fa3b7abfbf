package events

import (
	"sync"

	"peony/internal/models"
)

// SnapshotHandler receives the entire current override collection. Every
// delivery is a full-state replacement; handlers must not merge.
type SnapshotHandler func(models.OverrideMap)

// Bus provides in-process fan-out of override snapshots.
type Bus struct {
	mu          sync.RWMutex
	nextID      int64
	subscribers map[int64]SnapshotHandler
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[int64]SnapshotHandler)}
}

// Subscribe registers a handler and returns its unsubscribe function.
// Unsubscribe is idempotent.
func (b *Bus) Subscribe(handler SnapshotHandler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// Publish delivers the snapshot to every subscriber. Each handler gets its
// own clone so no two consumers share record pointers.
func (b *Bus) Publish(snapshot models.OverrideMap) {
	b.mu.RLock()
	handlers := make([]SnapshotHandler, 0, len(b.subscribers))
	for _, h := range b.subscribers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		handler(snapshot.Clone())
	}
}

// Len reports the current subscriber count.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
