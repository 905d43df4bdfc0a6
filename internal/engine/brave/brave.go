// Package brave implements the engine contract against the Brave Search
// API. A subscription token is required; without one the adapter reports
// itself unavailable.
package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/windrose-search/windrose/internal/domain"
	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/domain/search/query"
	"github.com/windrose-search/windrose/internal/domain/search/result"
)

const defaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Config holds adapter settings. APIKey falls back to the
// WINDROSE_BRAVE_API_KEY environment variable when empty.
type Config struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// Brave queries the Brave Search JSON API.
type Brave struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Brave adapter.
func New(cfg Config) *Brave {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: engine.DefaultHTTPTimeout}
	}
	return &Brave{
		apiKey:  engine.ResolveAPIKey("brave", cfg.APIKey),
		baseURL: base,
		client:  client,
	}
}

// Info returns the adapter's static metadata.
func (b *Brave) Info() engine.Info {
	return engine.Info{
		ID:            "brave",
		Name:          "Brave Search",
		NeedsKey:      true,
		Capabilities:  []engine.Capability{engine.CapSearch, engine.CapNews, engine.CapImages},
		PrivacyRating: 0.8,
		Dialect:       engine.DialectStandard,
		RateLimit:     engine.RateLimit{RequestsPerMinute: 60, RequestsPerDay: 2000},
	}
}

// Available reports whether a token was resolved.
func (b *Brave) Available() bool { return b.apiKey != "" }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PageAge     string `json:"page_age"`
			Profile     struct {
				Img string `json:"img"`
			} `json:"profile"`
		} `json:"results"`
		TotalCount int `json:"total_count"`
	} `json:"web"`
}

// Search runs one web-search request.
func (b *Brave) Search(ctx context.Context, q query.Query) (engine.Result, error) {
	if b.apiKey == "" {
		return engine.Result{}, domain.ErrMissingCredentials
	}

	text := q.Text()
	if q.Site() != "" {
		text = fmt.Sprintf("site:%s %s", q.Site(), text)
	}
	params := url.Values{
		"q":      {text},
		"count":  {strconv.Itoa(q.PageSize())},
		"offset": {strconv.Itoa(q.Page() - 1)},
	}
	if q.SafeSearch() {
		params.Set("safesearch", "strict")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return engine.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return engine.Result{}, fmt.Errorf("brave request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.Result{}, fmt.Errorf("%w: %d", domain.ErrBadStatus, resp.StatusCode)
	}

	var body braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return engine.Result{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	items := make([]result.Item, 0, len(body.Web.Results))
	for i, r := range body.Web.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		it := result.Item{
			EngineID:   "brave",
			URL:        r.URL,
			Title:      r.Title,
			Snippet:    r.Description,
			FaviconURL: r.Profile.Img,
		}
		pos := i + 1
		it.Position = &pos
		if ts, err := time.Parse(time.RFC3339, r.PageAge); err == nil {
			it.PublishedAt = &ts
		}
		engine.Annotate(&it)
		items = append(items, it)
	}

	return engine.Result{Items: items, TotalResults: body.Web.TotalCount}, nil
}
