package chi

import (
	"time"

	"github.com/windrose-search/windrose/internal/domain/search/response"
	"github.com/windrose-search/windrose/internal/domain/search/result"
	"github.com/windrose-search/windrose/internal/registry"
	healthuc "github.com/windrose-search/windrose/internal/usecase/health"
)

// ErrorCode identifies an error class in API responses.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ResultItem is one search hit in the API response.
type ResultItem struct {
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Snippet      string     `json:"snippet,omitempty"`
	Score        float64    `json:"score"`
	Engine       string     `json:"engine"`
	FaviconURL   string     `json:"favicon_url,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	PrivacyScore *float64   `json:"privacy_score,omitempty"`
	IndieWeb     *bool      `json:"indie_web,omitempty"`
	ContentType  string     `json:"content_type,omitempty"`
}

// EngineTelemetry reports one engine's outcome for the request.
type EngineTelemetry struct {
	ID          string `json:"id"`
	Success     bool   `json:"success"`
	LatencyMS   int64  `json:"latency_ms"`
	ResultCount int    `json:"result_count"`
	Error       string `json:"error,omitempty"`
}

// SearchResponse is the body of GET /api/v1/search.
type SearchResponse struct {
	Query        string            `json:"query"`
	Results      []ResultItem      `json:"results"`
	Engines      []EngineTelemetry `json:"engines"`
	TotalResults int               `json:"total_results"`
	ElapsedMS    int64             `json:"elapsed_ms"`
	Partial      bool              `json:"partial"`
}

// EngineStatus is one entry of GET /api/v1/engines.
type EngineStatus struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	NeedsKey      bool    `json:"needs_key"`
	PrivacyRating float64 `json:"privacy_rating"`
	Enabled       bool    `json:"enabled"`
	Available     bool    `json:"available"`
	Tripped       bool    `json:"tripped"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func resultToDTO(r *result.Item) ResultItem {
	item := ResultItem{
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
	return item
}

func telemetryToDTO(t response.Telemetry) EngineTelemetry {
	return EngineTelemetry{
		ID:          t.EngineID,
		Success:     t.Success,
		LatencyMS:   t.Latency.Milliseconds(),
		ResultCount: t.ResultCount,
		Error:       t.Error,
	}
}

func statusToDTO(s registry.Status) EngineStatus {
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

func healthToDTO(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks}
}
