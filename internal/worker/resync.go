// Package worker runs the periodic override resync loop. Cross-instance
// invalidations over redis are best-effort; the resync loop bounds how long
// an instance can serve a snapshot that missed one.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Resyncer reloads and republishes the override collection.
type Resyncer interface {
	Resync(ctx context.Context) error
}

// RetryPolicy shapes the backoff between failed attempts inside one resync
// round: InitialDelay grown by BackoffFactor per attempt, capped at MaxDelay.
// Zero values fall back to one second, factor two, no cap.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NextDelay returns the wait before the retry following the given 1-based
// attempt. Attempts below one count as the first.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := p.InitialDelay
	if delay <= 0 {
		delay = time.Second
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = 2
	}

	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * factor)
		if p.MaxDelay > 0 && delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	return delay
}

// ResyncWorker calls the target on a fixed interval, retrying each failed
// attempt with exponential backoff. A round that exhausts its retries is
// logged and skipped; subscribers keep the previous snapshot.
type ResyncWorker struct {
	target   Resyncer
	interval time.Duration
	policy   RetryPolicy
	logger   *zerolog.Logger
}

func NewResyncWorker(target Resyncer, interval time.Duration, policy RetryPolicy, logger *zerolog.Logger) *ResyncWorker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &ResyncWorker{
		target:   target,
		interval: interval,
		policy:   policy,
		logger:   logger,
	}
}

// Run blocks until ctx is canceled.
func (w *ResyncWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.resyncOnce(ctx)
		}
	}
}

func (w *ResyncWorker) resyncOnce(ctx context.Context) {
	attempts := w.policy.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = w.target.Resync(ctx); err == nil {
			return
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.policy.NextDelay(attempt)):
		}
	}
	w.logger.Error().Err(err).Int("attempts", attempts).Msg("override resync round failed")
}
