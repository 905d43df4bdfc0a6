package windrose

import (
	"time"

	"github.com/windrose-search/windrose/internal/domain/search/response"
	"github.com/windrose-search/windrose/internal/domain/search/result"
	"github.com/windrose-search/windrose/internal/registry"
)

// Query describes one federated search.
type Query struct {
	Text       string
	Page       int // 1-based, default 1
	PageSize   int // default 20, max 100
	Site       string
	Category   string
	SafeSearch bool

	// Engines restricts dispatch to these ids when non-empty.
	Engines []string

	// Post-merge filters.
	IndieOnly    bool
	PrivacyOnly  bool
	NoTrackers   bool
	ContentTypes []string
}

// Result is one search hit.
type Result struct {
	URL          string
	Title        string
	Snippet      string
	Score        float64
	Engine       string
	FaviconURL   string
	PublishedAt  *time.Time
	PrivacyScore *float64
	IndieWeb     *bool
	ContentType  string
}

// EngineReport is one engine's outcome for a search.
type EngineReport struct {
	ID          string
	Success     bool
	Latency     time.Duration
	ResultCount int
	Error       string
}

// Response is the merged outcome of one search.
type Response struct {
	Results      []Result
	Engines      []EngineReport
	TotalResults int
	Elapsed      time.Duration
	Partial      bool
}

// EngineStatus describes one registered engine.
type EngineStatus struct {
	ID            string
	Name          string
	NeedsKey      bool
	PrivacyRating float64
	Enabled       bool
	Available     bool
	Tripped       bool
}

// Health is the aggregated component status.
type Health struct {
	Status string
	Checks map[string]string
}

func resultFromInternal(r *result.Item) Result {
	return Result{
		URL:          r.URL,
		Title:        r.Title,
		Snippet:      r.Snippet,
		Score:        r.EffectiveScore(),
		Engine:       r.EngineID,
		FaviconURL:   r.FaviconURL,
		PublishedAt:  r.PublishedAt,
		PrivacyScore: r.PrivacyScore,
		IndieWeb:     r.IndieWeb,
		ContentType:  string(r.ContentType),
	}
}

func responseFromInternal(resp response.Response) Response {
	out := Response{
		TotalResults: resp.TotalResults,
		Elapsed:      resp.Elapsed,
		Partial:      resp.Partial,
	}
	out.Results = make([]Result, len(resp.Results))
	for i := range resp.Results {
		out.Results[i] = resultFromInternal(&resp.Results[i])
	}
	out.Engines = make([]EngineReport, len(resp.Engines))
	for i, t := range resp.Engines {
		out.Engines[i] = EngineReport{
			ID:          t.EngineID,
			Success:     t.Success,
			Latency:     t.Latency,
			ResultCount: t.ResultCount,
			Error:       t.Error,
		}
	}
	return out
}

func statusFromInternal(s registry.Status) EngineStatus {
	return EngineStatus{
		ID:            s.Info.ID,
		Name:          s.Info.Name,
		NeedsKey:      s.Info.NeedsKey,
		PrivacyRating: s.Info.PrivacyRating,
		Enabled:       s.Enabled,
		Available:     s.Available,
		Tripped:       s.Tripped,
	}
}
