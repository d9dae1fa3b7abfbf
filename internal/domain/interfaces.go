package domain

import (
	"context"
	"time"

	"peony/internal/models"
)

// OverrideStore is the keyed document store holding one override record per
// date. Writes are whole-record, per-date; there is no cross-date transaction.
type OverrideStore interface {
	GetOverride(ctx context.Context, date models.DateKey) (*models.OverrideRecord, error)
	// PutOverride replaces the record for rec.Date. When rec.Version > 0 the
	// write is conditional on the stored version and fails with ErrStaleWrite
	// on mismatch; version 0 writes unconditionally (last writer wins).
	PutOverride(ctx context.Context, rec *models.OverrideRecord) (*models.OverrideRecord, error)
	// ListOverrides returns the entire current collection.
	ListOverrides(ctx context.Context) (models.OverrideMap, error)
}

// ChangeFeed delivers the full override collection to subscribers whenever
// any record changes. Each delivery replaces the consumer's local map.
type ChangeFeed interface {
	Subscribe(fn func(models.OverrideMap)) (unsubscribe func())
}

// SessionRepository stores per-client booking sessions keyed by an opaque ID.
type SessionRepository interface {
	GetSession(ctx context.Context, id string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, id string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
