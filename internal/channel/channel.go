// Package channel implements the override sync channel: administrative
// point writes into the keyed override store plus a full-collection change
// feed for any number of reading clients.
package channel

import (
	"context"
	"fmt"
	"sync"

	"peony/internal/domain"
	"peony/internal/events"
	"peony/internal/metrics"
	"peony/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SyncError reports a failed channel operation with a human-readable cause.
// The channel never retries; local state stays whatever it was before.
type SyncError struct {
	Op  string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Channel owns the override store and fans the whole collection out to
// subscribers on every change. A nil redis client is legal: the channel then
// serves a single process and skips cross-instance invalidation.
type Channel struct {
	store  domain.OverrideStore
	bus    *events.Bus
	rdb    *redis.Client
	topic  string
	logger *zerolog.Logger

	// mu serializes snapshot loads with their publication, so an older
	// load can never overwrite a newer one at a subscriber.
	mu sync.Mutex
}

func New(store domain.OverrideStore, rdb *redis.Client, namespace string, logger *zerolog.Logger) *Channel {
	return &Channel{
		store:  store,
		bus:    events.NewBus(),
		rdb:    rdb,
		topic:  namespace + ":overrides:changed",
		logger: logger,
	}
}

// Write replaces the record for rec.Date and pushes the new full collection
// to every local subscriber. Other instances are nudged over redis pub/sub.
// Failure surfaces synchronously as *SyncError; subscribers keep their last
// snapshot.
func (c *Channel) Write(ctx context.Context, rec *models.OverrideRecord) (*models.OverrideRecord, error) {
	saved, err := c.store.PutOverride(ctx, rec)
	if err != nil {
		return nil, &SyncError{Op: "write", Err: err}
	}
	metrics.IncOverrideWrite()

	c.broadcast(ctx)

	if c.rdb != nil {
		if err := c.rdb.Publish(ctx, c.topic, string(rec.Date)).Err(); err != nil {
			// Local subscribers already got the snapshot; remote instances
			// will catch up on their next write or restart.
			c.logger.Warn().Err(err).Str("date", rec.Date.String()).Msg("override invalidation publish failed")
		}
	}

	return saved, nil
}

// Subscribe registers fn and immediately delivers the current collection so
// new clients do not start blind. Tear down with the returned unsubscribe.
// Load, registration and first delivery happen under mu as one unit, so a
// concurrent Write cannot slip a newer snapshot in between that the initial
// delivery would then shadow.
func (c *Channel) Subscribe(fn func(models.OverrideMap)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, err := c.store.ListOverrides(context.Background())
	unsubscribe := c.bus.Subscribe(fn)
	if err != nil {
		// Stale-but-usable: the consumer starts from the empty map, which
		// resolves every bookable date to the default template.
		c.logger.Error().Err(err).Msg("initial override snapshot load failed")
		return unsubscribe
	}
	fn(snapshot.Clone())
	metrics.IncFeedDelivery()

	return unsubscribe
}

// Run listens for cross-instance invalidations and re-broadcasts the full
// collection on each one. It blocks until ctx is canceled. With no redis
// client there is nothing remote to listen to and Run returns immediately.
func (c *Channel) Run(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}

	pubsub := c.rdb.Subscribe(ctx, c.topic)
	defer pubsub.Close()

	// Local writes broadcast directly, so a self-published message causes
	// one redundant reload. Deliveries replace the whole map, so that is
	// harmless.
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c.logger.Debug().Str("date", msg.Payload).Msg("override change notification")
			c.broadcast(ctx)
		}
	}
}

// Resync reloads the full collection from the store and republishes it to
// every local subscriber. Periodic resyncs recover instances that missed
// invalidations while redis was unreachable.
func (c *Channel) Resync(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot, err := c.store.ListOverrides(ctx)
	if err != nil {
		return &SyncError{Op: "resync", Err: err}
	}
	c.bus.Publish(snapshot)
	metrics.IncFeedDelivery()
	return nil
}

func (c *Channel) broadcast(ctx context.Context) {
	if err := c.Resync(ctx); err != nil {
		c.logger.Error().Err(err).Msg("override snapshot load failed, subscribers keep previous state")
	}
}
