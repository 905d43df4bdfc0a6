// Package breaker implements the per-engine circuit breaker: engines that
// fail repeatedly inside a rolling window are excluded from dispatch until
// the window elapses. Counters are advisory, not safety-critical.
package breaker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Defaults matching the eligibility policy: three failures in five minutes
// trips the breaker.
const (
	DefaultThreshold = 3
	DefaultWindow    = 5 * time.Minute
)

// CounterStore tracks rolling failure counts per engine. Each
// implementation owns the window semantics: a failure count must read as
// zero once the window has elapsed since the last recorded failure.
type CounterStore interface {
	// RecordFailure increments the counter and returns the new count.
	RecordFailure(ctx context.Context, engineID string) (int, error)
	// Failures returns the current in-window count.
	Failures(ctx context.Context, engineID string) (int, error)
	// Reset clears the counter.
	Reset(ctx context.Context, engineID string) error
}

// Breaker decides engine eligibility from a CounterStore.
type Breaker struct {
	store     CounterStore
	threshold int
	logger    *zap.Logger
}

// New creates a breaker. A nil store panics; use memory.New for the
// default in-process behavior.
func New(store CounterStore, threshold int, logger *zap.Logger) *Breaker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Breaker{store: store, threshold: threshold, logger: logger}
}

// RecordFailure notes one engine failure. Store errors are logged and
// swallowed: a broken counter store must never fail a search.
func (b *Breaker) RecordFailure(ctx context.Context, engineID string) {
	count, err := b.store.RecordFailure(ctx, engineID)
	if err != nil {
		b.logger.Warn("breaker: record failure", zap.String("engine", engineID), zap.Error(err))
		return
	}
	if count == b.threshold {
		b.logger.Warn("breaker: engine tripped",
			zap.String("engine", engineID), zap.Int("failures", count))
	}
}

// RecordSuccess clears the engine's failure counter.
func (b *Breaker) RecordSuccess(ctx context.Context, engineID string) {
	if err := b.store.Reset(ctx, engineID); err != nil {
		b.logger.Warn("breaker: reset", zap.String("engine", engineID), zap.Error(err))
	}
}

// Tripped reports whether the engine is currently excluded. Store errors
// read as not-tripped so a broken store degrades to no breaking.
func (b *Breaker) Tripped(ctx context.Context, engineID string) bool {
	count, err := b.store.Failures(ctx, engineID)
	if err != nil {
		b.logger.Warn("breaker: read failures", zap.String("engine", engineID), zap.Error(err))
		return false
	}
	return count >= b.threshold
}
