package windrose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/windrose-search/windrose/internal/breaker"
	breakermem "github.com/windrose-search/windrose/internal/breaker/memory"
	"github.com/windrose-search/windrose/internal/domain/search/filter"
	"github.com/windrose-search/windrose/internal/domain/search/query"
	"github.com/windrose-search/windrose/internal/domain/search/result"
	"github.com/windrose-search/windrose/internal/registry"
	healthuc "github.com/windrose-search/windrose/internal/usecase/health"
	"github.com/windrose-search/windrose/internal/usecase/optimize"
	searchuc "github.com/windrose-search/windrose/internal/usecase/search"
)

// Client is the windrose SDK entry point.
type Client struct {
	registry  *registry.Registry
	searchSvc *searchuc.Service
	healthSvc *healthuc.Service
	timeout   time.Duration
	obs       *observer
}

// New creates a windrose Client. At least one engine option is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.engines) == 0 {
		return nil, errors.New(
			"windrose: at least one engine required (use WithDuckDuckGo, WithMojeek, ...)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store := breakermem.New(cfg.breakerWindow)
	brk := breaker.New(store, cfg.breakerThreshold, zap.NewNop())

	reg := registry.New(brk)
	for _, er := range cfg.engines {
		reg.Register(er.engine, er.config)
	}

	optimizer := optimize.New(optimize.Options{
		SpellCorrect:    !cfg.noSpellCorrect,
		RemoveStopWords: cfg.removeStopWords,
		ExpandSynonyms:  cfg.expandSynonyms,
	})

	svc := searchuc.New(reg, brk, optimizer, zap.NewNop())
	if cfg.cacheSize > 0 {
		svc = svc.WithCache(cfg.cacheSize, cfg.cacheTTL)
	}

	return &Client{
		registry:  reg,
		searchSvc: svc,
		healthSvc: healthuc.New(reg, nil),
		timeout:   cfg.searchTimeout,
		obs:       obs,
	}, nil
}

// Search runs one federated search. Engine failures never surface as an
// error: inspect Response.Partial and Response.Engines instead.
func (c *Client) Search(ctx context.Context, q Query) (_ Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	iq, err := query.New(q.Text, q.Page, q.PageSize, q.Site, q.Category, q.SafeSearch)
	if err != nil {
		return Response{}, fmt.Errorf("windrose: %w", err)
	}

	opts := searchuc.Options{
		Timeout: c.timeout,
		Engines: q.Engines,
	}
	constraints := filter.Constraints{
		IndieOnly:   q.IndieOnly,
		PrivacyOnly: q.PrivacyOnly,
		NoTrackers:  q.NoTrackers,
	}
	for _, ct := range q.ContentTypes {
		constraints.ContentTypes = append(constraints.ContentTypes, result.ContentType(ct))
	}
	if !constraints.IsEmpty() {
		opts.Filter = &constraints
	}

	internal, err := c.searchSvc.Search(ctx, iq, opts)
	if err != nil {
		return Response{}, fmt.Errorf("windrose: search: %w", err)
	}
	return responseFromInternal(internal), nil
}

// Engines reports the state of every registered engine.
func (c *Client) Engines(ctx context.Context) []EngineStatus {
	statuses := c.registry.StatusAll(ctx)
	out := make([]EngineStatus, len(statuses))
	for i, s := range statuses {
		out[i] = statusFromInternal(s)
	}
	return out
}

// Health checks component availability.
func (c *Client) Health(ctx context.Context) Health {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return Health{Status: string(report.Status), Checks: checks}
}
