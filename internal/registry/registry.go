// Package registry holds the configured engine set and computes which
// engines are eligible for a given request: enabled, available, and not
// excluded by the circuit breaker.
package registry

import (
	"context"
	"sort"
	"time"

	"github.com/windrose-search/windrose/internal/breaker"
	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/metrics"
)

// Config is the per-engine operator configuration, independent of any
// query. Priority: lower is preferred, 0 means unset (sorts last).
type Config struct {
	Enabled      bool
	Priority     int
	FallbackOnly bool
	Timeout      time.Duration
	MaxResults   int
}

// Defaults for unset config fields.
const (
	DefaultTimeout    = 3 * time.Second
	DefaultMaxResults = 30
)

// Entry pairs an adapter with its configuration.
type Entry struct {
	Engine engine.Engine
	Config Config
}

// Status is the read-only per-engine view for operators and UIs.
type Status struct {
	Info      engine.Info
	Enabled   bool
	Available bool
	Tripped   bool
}

// Registry maps engine ids to entries. Registration happens at startup;
// afterwards the registry is read-only, so no locking is needed.
type Registry struct {
	entries map[string]Entry
	order   []string // registration order, for stable listings
	breaker *breaker.Breaker
}

// New creates a registry backed by the given breaker.
func New(b *breaker.Breaker) *Registry {
	return &Registry{entries: make(map[string]Entry), breaker: b}
}

// Register adds an engine with its config. Re-registering an id replaces
// the previous entry.
func (r *Registry) Register(e engine.Engine, cfg Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	id := e.Info().ID
	if _, exists := r.entries[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entries[id] = Entry{Engine: e, Config: cfg}
}

// Get returns the entry for an id.
func (r *Registry) Get(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Breaker exposes the breaker for outcome recording by the orchestrator.
func (r *Registry) Breaker() *breaker.Breaker { return r.breaker }

// Enabled returns entries whose config is enabled and whose adapter
// reports itself available, in registration order.
func (r *Registry) Enabled() []Entry {
	var out []Entry
	for _, id := range r.order {
		e := r.entries[id]
		if e.Config.Enabled && e.Engine.Available() {
			out = append(out, e)
		}
	}
	return out
}

// ByPriority returns the enabled set sorted ascending by priority;
// entries without a priority sort last. The sort is stable so equal
// priorities keep registration order.
func (r *Registry) ByPriority() []Entry {
	out := r.Enabled()
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Config.Priority, out[j].Config.Priority
		if pi <= 0 {
			return false
		}
		if pj <= 0 {
			return true
		}
		return pi < pj
	})
	return out
}

// Eligible computes the dispatch set for one request: enabled, available,
// priority-ordered, intersected with the allow-list when given, breaker-
// tripped engines excluded. Fallback-only engines join only when no
// primary engine survived.
func (r *Registry) Eligible(ctx context.Context, allowList []string) []Entry {
	allowed := map[string]struct{}{}
	for _, id := range allowList {
		allowed[id] = struct{}{}
	}

	var primaries, fallbacks []Entry
	for _, e := range r.ByPriority() {
		id := e.Engine.Info().ID
		if len(allowed) > 0 {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}
		if r.breaker != nil && r.breaker.Tripped(ctx, id) {
			metrics.BreakerOpenTotal.WithLabelValues(id).Inc()
			continue
		}
		if e.Config.FallbackOnly {
			fallbacks = append(fallbacks, e)
		} else {
			primaries = append(primaries, e)
		}
	}

	if len(primaries) > 0 {
		return primaries
	}
	return fallbacks
}

// StatusAll reports every registered engine's state, in registration
// order, for the operator endpoint.
func (r *Registry) StatusAll(ctx context.Context) []Status {
	out := make([]Status, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		tripped := r.breaker != nil && r.breaker.Tripped(ctx, id)
		out = append(out, Status{
			Info:      e.Engine.Info(),
			Enabled:   e.Config.Enabled,
			Available: e.Engine.Available(),
			Tripped:   tripped,
		})
	}
	return out
}
