package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/windrose-search/windrose/internal/domain/search/filter"
	"github.com/windrose-search/windrose/internal/domain/search/query"
	"github.com/windrose-search/windrose/internal/domain/search/result"
	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/registry"
)

type stubEngine struct {
	id      string
	dialect engine.Dialect
	result  engine.Result
	err     error
	block   bool // wait for ctx cancellation instead of returning

	mu    sync.Mutex
	calls int
	seen  string // last query text received
}

func (e *stubEngine) Info() engine.Info {
	return engine.Info{ID: e.id, Name: e.id, Dialect: e.dialect}
}

func (e *stubEngine) Available() bool { return true }

func (e *stubEngine) Search(ctx context.Context, q query.Query) (engine.Result, error) {
	e.mu.Lock()
	e.calls++
	e.seen = q.Text()
	e.mu.Unlock()

	if e.block {
		<-ctx.Done()
		return engine.Result{}, ctx.Err()
	}
	return e.result, e.err
}

func (e *stubEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *stubEngine) seenText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seen
}

type stubSource struct{ entries []registry.Entry }

func (s *stubSource) Eligible(_ context.Context, _ []string) []registry.Entry {
	return s.entries
}

type recordingOutcomes struct {
	mu        sync.Mutex
	failures  []string
	successes []string
}

func (r *recordingOutcomes) RecordFailure(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, id)
}

func (r *recordingOutcomes) RecordSuccess(_ context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, id)
}

// passOptimizer returns text unchanged, but tags plain-dialect rewrites so
// tests can observe which form each engine received.
type passOptimizer struct{}

func (passOptimizer) Optimize(text string) string { return text }

func (passOptimizer) ForDialect(text string, d engine.Dialect) string {
	if d == engine.DialectPlain {
		return text + " plain"
	}
	return text
}

func mustQuery(t *testing.T, text string) query.Query {
	t.Helper()
	q, err := query.New(text, 1, 10, "", "", false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func entry(e engine.Engine, cfg registry.Config) registry.Entry {
	if cfg.Timeout <= 0 {
		cfg.Timeout = registry.DefaultTimeout
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = registry.DefaultMaxResults
	}
	return registry.Entry{Engine: e, Config: cfg}
}

func newTestService(src EngineSource, rec OutcomeRecorder) *Service {
	return New(src, rec, passOptimizer{}, zap.NewNop())
}

func TestSearchMergesDuplicateAcrossEngines(t *testing.T) {
	thin := item("a", "https://www.foo.com/x/", 0.4, 1)
	rich := item("b", "https://foo.com/x", 0.7, 1)
	rich.Snippet = "the page"

	a := &stubEngine{id: "a", result: engine.Result{Items: []result.Item{thin}, TotalResults: 1}}
	b := &stubEngine{id: "b", result: engine.Result{Items: []result.Item{rich}, TotalResults: 1}}
	src := &stubSource{entries: []registry.Entry{entry(a, registry.Config{}), entry(b, registry.Config{})}}

	resp, err := newTestService(src, &recordingOutcomes{}).Search(context.Background(), mustQuery(t, "foo"), Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1 merged", len(resp.Results))
	}
	got := resp.Results[0]
	if got.EffectiveScore() != 0.7 {
		t.Errorf("merged score = %v, want the higher 0.7", got.EffectiveScore())
	}
	if got.Snippet != "the page" {
		t.Errorf("merged snippet = %q, want the richer variant's", got.Snippet)
	}
	if resp.Partial {
		t.Error("Partial = true on full success")
	}
	if len(resp.Engines) != 2 || !resp.Engines[0].Success || !resp.Engines[1].Success {
		t.Errorf("telemetry = %+v, want two successes", resp.Engines)
	}
	if resp.TotalResults != 2 {
		t.Errorf("TotalResults = %d, want 2", resp.TotalResults)
	}
}

func TestSearchIsolatesEngineFailure(t *testing.T) {
	boom := errors.New("upstream 500")
	a := &stubEngine{id: "a", err: boom}
	b := &stubEngine{id: "b", result: engine.Result{Items: []result.Item{
		item("b", "https://ok.example/p", 0.6, 1),
	}}}
	src := &stubSource{entries: []registry.Entry{entry(a, registry.Config{}), entry(b, registry.Config{})}}
	rec := &recordingOutcomes{}

	resp, err := newTestService(src, rec).Search(context.Background(), mustQuery(t, "foo"), Options{})
	if err != nil {
		t.Fatalf("Search returned error despite surviving engine: %v", err)
	}

	if !resp.Partial {
		t.Error("Partial = false with a failed engine")
	}
	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1 from the surviving engine", len(resp.Results))
	}
	if len(resp.Engines) != 2 {
		t.Fatalf("got %d telemetry entries, want 2", len(resp.Engines))
	}
	if resp.Engines[0].EngineID != "a" || resp.Engines[0].Success || resp.Engines[0].Error == "" {
		t.Errorf("failed engine telemetry = %+v", resp.Engines[0])
	}
	if resp.Engines[1].EngineID != "b" || !resp.Engines[1].Success {
		t.Errorf("surviving engine telemetry = %+v", resp.Engines[1])
	}
	if len(rec.failures) != 1 || rec.failures[0] != "a" {
		t.Errorf("recorded failures = %v, want [a]", rec.failures)
	}
	if len(rec.successes) != 1 || rec.successes[0] != "b" {
		t.Errorf("recorded successes = %v, want [b]", rec.successes)
	}
}

func TestSearchNoEligibleEngines(t *testing.T) {
	resp, err := newTestService(&stubSource{}, &recordingOutcomes{}).
		Search(context.Background(), mustQuery(t, "foo"), Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 0 || len(resp.Engines) != 0 {
		t.Errorf("expected empty response, got %+v", resp)
	}
}

func TestSearchTimeoutCancelsSlowEngine(t *testing.T) {
	slow := &stubEngine{id: "slow", block: true}
	fast := &stubEngine{id: "fast", result: engine.Result{Items: []result.Item{
		item("fast", "https://fast.example/p", 0.5, 1),
	}}}
	src := &stubSource{entries: []registry.Entry{entry(slow, registry.Config{}), entry(fast, registry.Config{})}}
	rec := &recordingOutcomes{}

	resp, err := newTestService(src, rec).
		Search(context.Background(), mustQuery(t, "foo"), Options{Timeout: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !resp.Partial {
		t.Error("Partial = false after a timed-out engine")
	}
	if len(resp.Results) != 1 {
		t.Errorf("got %d results, want the fast engine's 1", len(resp.Results))
	}
	if resp.Engines[0].EngineID != "slow" || resp.Engines[0].Success {
		t.Errorf("slow engine telemetry = %+v", resp.Engines[0])
	}
	if len(rec.failures) != 1 || rec.failures[0] != "slow" {
		t.Errorf("recorded failures = %v, want [slow]", rec.failures)
	}
}

func TestSearchCapsPerEngineResults(t *testing.T) {
	items := make([]result.Item, 5)
	for i := range items {
		items[i] = item("a", "https://cap.example/"+string(rune('a'+i)), 0.5, i+1)
	}
	a := &stubEngine{id: "a", result: engine.Result{Items: items, TotalResults: 120}}
	src := &stubSource{entries: []registry.Entry{entry(a, registry.Config{MaxResults: 2})}}

	resp, err := newTestService(src, &recordingOutcomes{}).
		Search(context.Background(), mustQuery(t, "foo"), Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("got %d results, want the configured cap of 2", len(resp.Results))
	}
	if resp.TotalResults != 120 {
		t.Errorf("TotalResults = %d, want the engine-reported 120", resp.TotalResults)
	}
}

func TestSearchTruncatesToPageSize(t *testing.T) {
	items := make([]result.Item, 15)
	for i := range items {
		items[i] = item("a", "https://many.example/"+string(rune('a'+i)), 0.5, i+1)
	}
	a := &stubEngine{id: "a", result: engine.Result{Items: items}}
	src := &stubSource{entries: []registry.Entry{entry(a, registry.Config{})}}

	resp, err := newTestService(src, &recordingOutcomes{}).
		Search(context.Background(), mustQuery(t, "foo"), Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 10 {
		t.Errorf("got %d results, want the page size 10", len(resp.Results))
	}
}

func TestSearchDialectRewrite(t *testing.T) {
	std := &stubEngine{id: "std", dialect: engine.DialectStandard}
	plain := &stubEngine{id: "plain", dialect: engine.DialectPlain}
	src := &stubSource{entries: []registry.Entry{entry(std, registry.Config{}), entry(plain, registry.Config{})}}

	_, err := newTestService(src, &recordingOutcomes{}).
		Search(context.Background(), mustQuery(t, "foo"), Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got := std.seenText(); got != "foo" {
		t.Errorf("standard engine received %q, want %q", got, "foo")
	}
	if got := plain.seenText(); got != "foo plain" {
		t.Errorf("plain engine received %q, want the dialect rewrite", got)
	}
}

func TestSearchResponseCache(t *testing.T) {
	t.Run("hit skips dispatch", func(t *testing.T) {
		a := &stubEngine{id: "a", result: engine.Result{Items: []result.Item{
			item("a", "https://hit.example/p", 0.5, 1),
		}}}
		src := &stubSource{entries: []registry.Entry{entry(a, registry.Config{})}}
		svc := newTestService(src, &recordingOutcomes{}).WithCache(8, time.Minute)

		q := mustQuery(t, "cached query")
		first, err := svc.Search(context.Background(), q, Options{})
		if err != nil {
			t.Fatalf("first Search: %v", err)
		}
		second, err := svc.Search(context.Background(), q, Options{})
		if err != nil {
			t.Fatalf("second Search: %v", err)
		}

		if a.callCount() != 1 {
			t.Errorf("engine called %d times, want 1", a.callCount())
		}
		if len(second.Results) != len(first.Results) {
			t.Errorf("cached response has %d results, want %d", len(second.Results), len(first.Results))
		}
	})

	t.Run("filter constraints key the cache", func(t *testing.T) {
		indie := item("a", "https://indie.example/p", 0.5, 1)
		indie.IndieWeb = ptr(true)
		corporate := item("a", "https://corp.example/p", 0.6, 2)
		corporate.IndieWeb = ptr(false)
		a := &stubEngine{id: "a", result: engine.Result{Items: []result.Item{corporate, indie}}}
		src := &stubSource{entries: []registry.Entry{entry(a, registry.Config{})}}
		svc := newTestService(src, &recordingOutcomes{}).WithCache(8, time.Minute)

		q := mustQuery(t, "filtered query")
		filtered, err := svc.Search(context.Background(), q, Options{
			Filter: &filter.Constraints{IndieOnly: true},
		})
		if err != nil {
			t.Fatalf("filtered Search: %v", err)
		}
		if len(filtered.Results) != 1 {
			t.Fatalf("filtered request got %d results, want 1", len(filtered.Results))
		}

		unfiltered, err := svc.Search(context.Background(), q, Options{})
		if err != nil {
			t.Fatalf("unfiltered Search: %v", err)
		}
		if len(unfiltered.Results) != 2 {
			t.Fatalf("unfiltered request got %d results, want 2 (filtered response replayed)", len(unfiltered.Results))
		}

		again, err := svc.Search(context.Background(), q, Options{
			Filter: &filter.Constraints{IndieOnly: true},
		})
		if err != nil {
			t.Fatalf("repeat filtered Search: %v", err)
		}
		if len(again.Results) != 1 {
			t.Errorf("repeat filtered request got %d results, want 1", len(again.Results))
		}
		if a.callCount() != 2 {
			t.Errorf("engine called %d times, want 2 (repeat filtered request should hit the cache)", a.callCount())
		}
	})

	t.Run("partial responses bypass the cache", func(t *testing.T) {
		a := &stubEngine{id: "a", err: errors.New("down")}
		src := &stubSource{entries: []registry.Entry{entry(a, registry.Config{})}}
		svc := newTestService(src, &recordingOutcomes{}).WithCache(8, time.Minute)

		q := mustQuery(t, "flaky query")
		for i := 0; i < 2; i++ {
			if _, err := svc.Search(context.Background(), q, Options{}); err != nil {
				t.Fatalf("Search %d: %v", i, err)
			}
		}
		if a.callCount() != 2 {
			t.Errorf("engine called %d times, want 2 (no caching of partials)", a.callCount())
		}
	})
}
