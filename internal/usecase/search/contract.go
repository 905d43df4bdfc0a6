package search

import (
	"context"

	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/registry"
)

// EngineSource yields the dispatch set for a request and records outcomes
// for the circuit breaker. Implemented by *registry.Registry.
type EngineSource interface {
	Eligible(ctx context.Context, allowList []string) []registry.Entry
}

// OutcomeRecorder feeds engine outcomes back into the breaker. Only the
// orchestrator writes breaker state.
type OutcomeRecorder interface {
	RecordFailure(ctx context.Context, engineID string)
	RecordSuccess(ctx context.Context, engineID string)
}

// Optimizer rewrites query text before dispatch.
type Optimizer interface {
	Optimize(text string) string
	ForDialect(text string, d engine.Dialect) string
}
