// Package search orchestrates one federated search: fan-out to eligible
// engines under a shared timeout, per-engine failure isolation, then
// dedupe, fusion or balancing, filters and boosts.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/windrose-search/windrose/internal/domain/search/boost"
	"github.com/windrose-search/windrose/internal/domain/search/filter"
	"github.com/windrose-search/windrose/internal/domain/search/query"
	"github.com/windrose-search/windrose/internal/domain/search/response"
	"github.com/windrose-search/windrose/internal/domain/search/result"
	"github.com/windrose-search/windrose/internal/metrics"
	"github.com/windrose-search/windrose/internal/registry"
)

// DefaultTimeout is the overall budget for one search request.
const DefaultTimeout = 3500 * time.Millisecond

// Options tune one search call. The zero value is usable.
type Options struct {
	Timeout time.Duration
	// Engines restricts dispatch to these ids when non-empty.
	Engines []string
	Filter  *filter.Constraints
	Boost   *boost.Config
}

// Service is the orchestrator.
type Service struct {
	engines   EngineSource
	outcomes  OutcomeRecorder
	optimizer Optimizer
	cache     *responseCache
	logger    *zap.Logger
}

// New creates the orchestrator service.
func New(engines EngineSource, outcomes OutcomeRecorder, optimizer Optimizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engines:   engines,
		outcomes:  outcomes,
		optimizer: optimizer,
		logger:    logger,
	}
}

// WithCache enables the in-memory response cache.
func (s *Service) WithCache(size int, ttl time.Duration) *Service {
	s.cache = newResponseCache(size, ttl)
	return s
}

// outcome is one engine's slot, indexed by dispatch order so telemetry
// order never depends on completion order.
type outcome struct {
	engineID string
	items    []result.Item
	total    int
	latency  time.Duration
	err      error
}

// Search runs the full pipeline. Engine failures never surface as an
// error: they are recorded in the response telemetry and the Partial flag.
func (s *Service) Search(ctx context.Context, q query.Query, opts Options) (response.Response, error) {
	start := time.Now()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	eligible := s.engines.Eligible(ctx, opts.Engines)
	if len(eligible) == 0 {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return response.Response{Elapsed: time.Since(start)}, nil
	}

	optimized := s.optimizer.Optimize(q.Text())
	if optimized == "" {
		optimized = q.Text()
	}

	cacheKey := s.cacheKey(optimized, q, opts)
	if cached, ok := s.cache.get(cacheKey); ok {
		metrics.ResponseCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	if s.cache != nil {
		metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()
	}

	outcomes := s.dispatch(ctx, eligible, q, optimized, timeout)

	resp := s.aggregate(outcomes, q, opts)
	resp.Elapsed = time.Since(start)

	s.cache.put(cacheKey, resp)

	s.logger.Info("search completed",
		zap.String("query", optimized),
		zap.Int("engines", len(eligible)),
		zap.Int("results", len(resp.Results)),
		zap.Bool("partial", resp.Partial),
		zap.Duration("elapsed", resp.Elapsed),
	)
	return resp, nil
}

// dispatch fans the query out to every eligible engine concurrently. One
// goroutine per engine; a failing or slow engine never aborts its
// siblings — each goroutine records its outcome in its own slot and
// returns nil to the group.
func (s *Service) dispatch(
	ctx context.Context, eligible []registry.Entry,
	q query.Query, optimized string, timeout time.Duration,
) []outcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcomes := make([]outcome, len(eligible))
	g, gctx := errgroup.WithContext(ctx)

	for i, entry := range eligible {
		info := entry.Engine.Info()
		outcomes[i].engineID = info.ID

		text := s.optimizer.ForDialect(optimized, info.Dialect)
		engQuery := q.WithText(text)
		cfg := entry.Config
		eng := entry.Engine

		g.Go(func() error {
			engCtx, engCancel := context.WithTimeout(gctx, cfg.Timeout)
			defer engCancel()

			began := time.Now()
			res, err := eng.Search(engCtx, engQuery)
			latency := time.Since(began)

			slot := &outcomes[i]
			slot.latency = latency
			if err != nil {
				slot.err = err
				s.recordFailure(ctx, info.ID, err, latency)
				return nil
			}

			items := res.Items
			if len(items) > cfg.MaxResults {
				items = items[:cfg.MaxResults]
			}
			slot.items = items
			slot.total = res.TotalResults
			if slot.total == 0 {
				slot.total = len(items)
			}

			s.outcomes.RecordSuccess(ctx, info.ID)
			metrics.EngineRequestsTotal.WithLabelValues(info.ID, "success").Inc()
			metrics.EngineRequestDuration.WithLabelValues(info.ID).Observe(latency.Seconds())
			metrics.EngineResultsTotal.WithLabelValues(info.ID).Add(float64(len(items)))
			return nil
		})
	}

	_ = g.Wait()
	return outcomes
}

// recordFailure feeds the breaker and metrics. Cancellation counts as a
// failure for the request but is labeled separately in metrics.
func (s *Service) recordFailure(ctx context.Context, engineID string, err error, latency time.Duration) {
	status := "failure"
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = "cancelled"
	}
	// Record against the parent context: the per-engine one may be dead.
	s.outcomes.RecordFailure(context.WithoutCancel(ctx), engineID)
	metrics.EngineRequestsTotal.WithLabelValues(engineID, status).Inc()
	metrics.EngineRequestDuration.WithLabelValues(engineID).Observe(latency.Seconds())
	s.logger.Warn("engine failed",
		zap.String("engine", engineID),
		zap.String("status", status),
		zap.Error(err),
	)
}

// aggregate merges per-engine outcomes into the final response.
func (s *Service) aggregate(outcomes []outcome, q query.Query, opts Options) response.Response {
	var resp response.Response
	var collected []result.Item
	succeeded := 0

	for _, o := range outcomes {
		tel := response.Telemetry{
			EngineID:    o.engineID,
			Success:     o.err == nil,
			Latency:     o.latency,
			ResultCount: len(o.items),
		}
		if o.err != nil {
			tel.Error = o.err.Error()
			resp.Partial = true
		} else {
			succeeded++
			resp.TotalResults += o.total
			collected = append(collected, o.items...)
		}
		resp.Engines = append(resp.Engines, tel)
	}

	merged := dedupe(collected)
	if succeeded > 1 {
		// More than one source: interleave per engine so a high-volume
		// engine cannot crowd out smaller ones.
		merged = balance(merged)
	} else {
		merged = fuse(merged)
	}

	if !opts.Filter.IsEmpty() {
		kept := merged[:0]
		for i := range merged {
			if opts.Filter.Allows(&merged[i]) {
				kept = append(kept, merged[i])
			}
		}
		merged = kept
	}

	if opts.Boost != nil {
		merged = applyBoosts(merged, opts.Boost.Normalized())
	}

	if len(merged) > q.PageSize() {
		merged = merged[:q.PageSize()]
	}
	resp.Results = merged

	outcomeLabel := "full"
	if resp.Partial {
		outcomeLabel = "partial"
	}
	metrics.SearchesTotal.WithLabelValues(outcomeLabel).Inc()
	metrics.SearchResultCount.Observe(float64(len(resp.Results)))
	return resp
}

// cacheKey covers everything that can change the response body: the
// optimized text, the dispatch set, every query knob the engines see,
// the filter constraints and the boost configuration. Boost configs are
// keyed by identity, which is exact for the static server-wide config.
func (s *Service) cacheKey(optimized string, q query.Query, opts Options) string {
	if s.cache == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(optimized)
	b.WriteByte('|')
	b.WriteString(strings.Join(opts.Engines, ","))
	b.WriteByte('|')
	b.WriteString(q.Site())
	b.WriteByte('|')
	b.WriteString(q.Category())
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(q.SafeSearch()))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.Page()))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(q.PageSize()))
	b.WriteByte('|')
	if f := opts.Filter; !f.IsEmpty() {
		if f.IndieOnly {
			b.WriteByte('i')
		}
		if f.PrivacyOnly {
			b.WriteByte('p')
		}
		if f.NoTrackers {
			b.WriteByte('t')
		}
		for _, ct := range f.ContentTypes {
			b.WriteByte(',')
			b.WriteString(string(ct))
		}
	}
	b.WriteByte('|')
	if opts.Boost != nil {
		fmt.Fprintf(&b, "%p", opts.Boost)
	}
	return b.String()
}
