// Package engine defines the contract every search backend adapter
// implements. The orchestration pipeline treats all backends through this
// interface; wire-protocol details stay inside each adapter.
package engine

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/windrose-search/windrose/internal/domain/search/query"
	"github.com/windrose-search/windrose/internal/domain/search/result"
)

// Capability names one thing a backend can do.
type Capability string

const (
	CapSearch        Capability = "search"
	CapInstantAnswer Capability = "instant_answer"
	CapImages        Capability = "images"
	CapNews          Capability = "news"
	CapSuggestions   Capability = "suggestions"
)

// Dialect selects per-engine query formatting in the optimizer.
type Dialect string

const (
	// DialectStandard passes advanced operators (site:, filetype:) through.
	DialectStandard Dialect = "standard"
	// DialectPlain strips advanced operators the backend cannot honor.
	DialectPlain Dialect = "plain"
)

// RateLimit is an advisory hint; the core does not enforce it.
type RateLimit struct {
	RequestsPerMinute int
	RequestsPerDay    int
}

// Info is the static metadata an adapter declares about itself.
type Info struct {
	ID            string
	Name          string
	NeedsKey      bool
	Capabilities  []Capability
	PrivacyRating float64 // 0..1
	Dialect       Dialect
	RateLimit     RateLimit
}

// Supports reports whether the capability set includes c.
func (i Info) Supports(c Capability) bool {
	for _, have := range i.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Result is one backend's raw answer before any merging.
type Result struct {
	Items []result.Item
	// TotalResults is the backend-reported total; 0 means unreported.
	TotalResults int
}

// Engine is the polymorphic backend contract. Search must honor ctx
// cancellation and surface ordinary failures (HTTP errors, malformed
// bodies) as returned errors, never panics.
type Engine interface {
	Info() Info
	Available() bool
	Search(ctx context.Context, q query.Query) (Result, error)
}

// APIKeyEnvVar is the well-known env var a credentialed adapter reads when
// no explicit key is configured: WINDROSE_<ID>_API_KEY.
func APIKeyEnvVar(engineID string) string {
	return fmt.Sprintf("WINDROSE_%s_API_KEY", strings.ToUpper(engineID))
}

// ResolveAPIKey prefers the configured key, falling back to the env var.
func ResolveAPIKey(engineID, configured string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv(APIKeyEnvVar(engineID))
}

// DefaultHTTPTimeout bounds adapter HTTP clients; per-request contexts
// supplied by the orchestrator are usually tighter.
const DefaultHTTPTimeout = 30 * time.Second
