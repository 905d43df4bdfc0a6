// Package mojeek implements the engine contract against the Mojeek Search
// API, an independent crawler with its own index.
package mojeek

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

const defaultBaseURL = "https://www.mojeek.com/search"

// Config holds adapter settings. APIKey falls back to the
// WINDROSE_MOJEEK_API_KEY environment variable when empty.
type Config struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// Mojeek queries the Mojeek JSON API.
type Mojeek struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a Mojeek adapter.
func New(cfg Config) *Mojeek {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: engine.DefaultHTTPTimeout}
	}
	return &Mojeek{
		apiKey:  engine.ResolveAPIKey("mojeek", cfg.APIKey),
		baseURL: base,
		client:  client,
	}
}

// Info returns the adapter's static metadata.
func (m *Mojeek) Info() engine.Info {
	return engine.Info{
		ID:            "mojeek",
		Name:          "Mojeek",
		NeedsKey:      true,
		Capabilities:  []engine.Capability{engine.CapSearch},
		PrivacyRating: 0.9,
		// The Mojeek API accepts plain keyword queries only.
		Dialect:   engine.DialectPlain,
		RateLimit: engine.RateLimit{RequestsPerDay: 5000},
	}
}

// Available reports whether an API key was resolved.
func (m *Mojeek) Available() bool { return m.apiKey != "" }

type mojeekResponse struct {
	Response struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Desc    string `json:"desc"`
			Crawled int64  `json:"cdatetimestamp"`
		} `json:"results"`
		Head struct {
			Results int `json:"results"`
		} `json:"head"`
	} `json:"response"`
}

// Search runs one API request.
func (m *Mojeek) Search(ctx context.Context, q query.Query) (engine.Result, error) {
	if m.apiKey == "" {
		return engine.Result{}, domain.ErrMissingCredentials
	}

	params := url.Values{
		"q":   {q.Text()},
		"fmt": {"json"},
		"api": {m.apiKey},
		"t":   {strconv.Itoa(q.PageSize())},
		"s":   {strconv.Itoa((q.Page() - 1) * q.PageSize())},
	}
	if q.Site() != "" {
		params.Set("fbcd", q.Site())
	}
	if q.SafeSearch() {
		params.Set("safe", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return engine.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return engine.Result{}, fmt.Errorf("mojeek request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.Result{}, fmt.Errorf("%w: %d", domain.ErrBadStatus, resp.StatusCode)
	}

	var body mojeekResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return engine.Result{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	items := make([]result.Item, 0, len(body.Response.Results))
	for i, r := range body.Response.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		it := result.Item{
			EngineID: "mojeek",
			URL:      r.URL,
			Title:    r.Title,
			Snippet:  r.Desc,
		}
		pos := i + 1
		it.Position = &pos
		if r.Crawled > 0 {
			ts := time.Unix(r.Crawled, 0).UTC()
			it.PublishedAt = &ts
		}
		engine.Annotate(&it)
		items = append(items, it)
	}

	return engine.Result{Items: items, TotalResults: body.Response.Head.Results}, nil
}
