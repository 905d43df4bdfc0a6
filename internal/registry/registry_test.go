package registry

import (
	"context"
	"testing"
	"time"

	"github.com/windrose-search/windrose/internal/breaker"
	"github.com/windrose-search/windrose/internal/breaker/memory"
	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/domain/search/query"
)

// stubEngine is a minimal adapter for registry tests.
type stubEngine struct {
	id        string
	available bool
}

func (s *stubEngine) Info() engine.Info { return engine.Info{ID: s.id, Name: s.id} }
func (s *stubEngine) Available() bool   { return s.available }
func (s *stubEngine) Search(context.Context, query.Query) (engine.Result, error) {
	return engine.Result{}, nil
}

func newRegistry() (*Registry, *breaker.Breaker) {
	b := breaker.New(memory.New(5*time.Minute), 3, nil)
	return New(b), b
}

func TestEnabledFiltersAvailabilityAndFlag(t *testing.T) {
	r, _ := newRegistry()
	r.Register(&stubEngine{id: "a", available: true}, Config{Enabled: true})
	r.Register(&stubEngine{id: "b", available: false}, Config{Enabled: true})
	r.Register(&stubEngine{id: "c", available: true}, Config{Enabled: false})

	got := r.Enabled()
	if len(got) != 1 || got[0].Engine.Info().ID != "a" {
		t.Fatalf("Enabled() = %v entries, want only a", len(got))
	}
}

func TestByPriorityOrdering(t *testing.T) {
	r, _ := newRegistry()
	r.Register(&stubEngine{id: "unset", available: true}, Config{Enabled: true})
	r.Register(&stubEngine{id: "third", available: true}, Config{Enabled: true, Priority: 3})
	r.Register(&stubEngine{id: "first", available: true}, Config{Enabled: true, Priority: 1})

	got := r.ByPriority()
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.Engine.Info().ID
	}
	want := []string{"first", "third", "unset"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestEligibleExcludesTrippedEngines(t *testing.T) {
	ctx := context.Background()
	r, b := newRegistry()
	r.Register(&stubEngine{id: "good", available: true}, Config{Enabled: true})
	r.Register(&stubEngine{id: "flaky", available: true}, Config{Enabled: true})

	for range 3 {
		b.RecordFailure(ctx, "flaky")
	}

	got := r.Eligible(ctx, nil)
	if len(got) != 1 || got[0].Engine.Info().ID != "good" {
		t.Fatalf("tripped engine not excluded: %d entries", len(got))
	}
}

func TestEligibleHonorsAllowList(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry()
	r.Register(&stubEngine{id: "a", available: true}, Config{Enabled: true})
	r.Register(&stubEngine{id: "b", available: true}, Config{Enabled: true})

	got := r.Eligible(ctx, []string{"b"})
	if len(got) != 1 || got[0].Engine.Info().ID != "b" {
		t.Fatalf("allow-list not applied")
	}
}

func TestEligibleFallbackOnlyWhenPrimariesGone(t *testing.T) {
	ctx := context.Background()
	r, b := newRegistry()
	r.Register(&stubEngine{id: "primary", available: true}, Config{Enabled: true})
	r.Register(&stubEngine{id: "spare", available: true}, Config{Enabled: true, FallbackOnly: true})

	got := r.Eligible(ctx, nil)
	if len(got) != 1 || got[0].Engine.Info().ID != "primary" {
		t.Fatalf("fallback engine dispatched alongside primaries")
	}

	for range 3 {
		b.RecordFailure(ctx, "primary")
	}
	got = r.Eligible(ctx, nil)
	if len(got) != 1 || got[0].Engine.Info().ID != "spare" {
		t.Fatalf("fallback engine not used when primaries are tripped")
	}
}

func TestRegisterAppliesDefaults(t *testing.T) {
	r, _ := newRegistry()
	r.Register(&stubEngine{id: "a", available: true}, Config{Enabled: true})

	e, _ := r.Get("a")
	if e.Config.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v", e.Config.Timeout)
	}
	if e.Config.MaxResults != DefaultMaxResults {
		t.Errorf("MaxResults = %d", e.Config.MaxResults)
	}
}

func TestStatusAll(t *testing.T) {
	ctx := context.Background()
	r, b := newRegistry()
	r.Register(&stubEngine{id: "a", available: true}, Config{Enabled: true})
	r.Register(&stubEngine{id: "b", available: false}, Config{Enabled: false})
	for range 3 {
		b.RecordFailure(ctx, "a")
	}

	statuses := r.StatusAll(ctx)
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses", len(statuses))
	}
	if !statuses[0].Tripped {
		t.Error("tripped state not reported")
	}
	if statuses[1].Available || statuses[1].Enabled {
		t.Error("disabled engine state wrong")
	}
}
