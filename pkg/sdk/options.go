package windrose

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/engine/brave"
	"github.com/windrose-search/windrose/internal/engine/duckduckgo"
	"github.com/windrose-search/windrose/internal/engine/mojeek"
	"github.com/windrose-search/windrose/internal/engine/searxng"
	"github.com/windrose-search/windrose/internal/registry"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// EngineSettings tune one engine registration. The zero value is usable.
type EngineSettings struct {
	Priority     int // lower is preferred, 0 means unset
	FallbackOnly bool
	Timeout      time.Duration // default 3s
	MaxResults   int           // default 30
	BaseURL      string        // override the engine endpoint
}

type engineRegistration struct {
	engine engine.Engine
	config registry.Config
}

type clientConfig struct {
	engines []engineRegistration

	breakerThreshold int
	breakerWindow    time.Duration

	searchTimeout time.Duration
	cacheSize     int
	cacheTTL      time.Duration

	removeStopWords bool
	expandSynonyms  bool
	noSpellCorrect  bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func (s EngineSettings) registryConfig() registry.Config {
	return registry.Config{
		Enabled:      true,
		Priority:     s.Priority,
		FallbackOnly: s.FallbackOnly,
		Timeout:      s.Timeout,
		MaxResults:   s.MaxResults,
	}
}

// WithDuckDuckGo registers the keyless DuckDuckGo HTML adapter.
func WithDuckDuckGo(s EngineSettings) Option {
	return optionFunc(func(c *clientConfig) {
		c.engines = append(c.engines, engineRegistration{
			engine: duckduckgo.New(duckduckgo.Config{BaseURL: s.BaseURL}),
			config: s.registryConfig(),
		})
	})
}

// WithBrave registers the Brave Search API adapter. An empty apiKey falls
// back to the WINDROSE_BRAVE_API_KEY environment variable.
func WithBrave(apiKey string, s EngineSettings) Option {
	return optionFunc(func(c *clientConfig) {
		c.engines = append(c.engines, engineRegistration{
			engine: brave.New(brave.Config{APIKey: apiKey, BaseURL: s.BaseURL}),
			config: s.registryConfig(),
		})
	})
}

// WithMojeek registers the Mojeek API adapter. An empty apiKey falls back
// to the WINDROSE_MOJEEK_API_KEY environment variable.
func WithMojeek(apiKey string, s EngineSettings) Option {
	return optionFunc(func(c *clientConfig) {
		c.engines = append(c.engines, engineRegistration{
			engine: mojeek.New(mojeek.Config{APIKey: apiKey, BaseURL: s.BaseURL}),
			config: s.registryConfig(),
		})
	})
}

// WithSearXNG registers a SearXNG adapter over the given instance pool.
func WithSearXNG(mirrors []string, s EngineSettings) Option {
	return optionFunc(func(c *clientConfig) {
		c.engines = append(c.engines, engineRegistration{
			engine: searxng.New(searxng.Config{Mirrors: mirrors}),
			config: s.registryConfig(),
		})
	})
}

// WithBreaker tunes the circuit breaker. Defaults: 3 failures within a
// 5-minute rolling window.
func WithBreaker(threshold int, window time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.breakerThreshold = threshold
		c.breakerWindow = window
	})
}

// WithTimeout sets the overall per-search budget. Default: 3.5s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchTimeout = d
	})
}

// WithCache enables the in-memory response cache.
func WithCache(size int, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheSize = size
		c.cacheTTL = ttl
	})
}

// WithStopWordRemoval strips common stop words from queries before
// dispatch. Off by default to preserve user intent.
func WithStopWordRemoval() Option {
	return optionFunc(func(c *clientConfig) {
		c.removeStopWords = true
	})
}

// WithSynonymExpansion appends up to two synonym terms to queries.
// Off by default.
func WithSynonymExpansion() Option {
	return optionFunc(func(c *clientConfig) {
		c.expandSynonyms = true
	})
}

// WithoutSpellCorrection disables the typo-correction pass, which is on
// by default.
func WithoutSpellCorrection() Option {
	return optionFunc(func(c *clientConfig) {
		c.noSpellCorrect = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
