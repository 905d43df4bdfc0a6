package health

import (
	"context"

	"github.com/windrose-search/windrose/internal/registry"
)

// EngineReporter reports the state of every registered engine.
type EngineReporter interface {
	StatusAll(ctx context.Context) []registry.Status
}

// StorePinger checks breaker store availability. Only the redis-backed
// store implements it; the in-memory store has nothing to ping.
type StorePinger interface {
	Ping(ctx context.Context) error
}
