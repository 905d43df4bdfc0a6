// Package searxng implements the engine contract against SearXNG's JSON
// API. Public instances rate-limit aggressively, so the adapter takes a
// mirror list and fails over to the next instance on error.
package searxng

import (
	"context"
	"encoding/json"
	"errors"
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

var defaultMirrors = []string{
	"https://searx.be",
	"https://search.sapti.me",
	"https://priv.au",
}

// Config holds adapter settings. Mirrors are tried in order.
type Config struct {
	Mirrors []string
	Client  *http.Client
}

// SearXNG federates to a SearXNG instance, itself a meta-searcher.
type SearXNG struct {
	mirrors []string
	client  *http.Client
}

// New creates a SearXNG adapter.
func New(cfg Config) *SearXNG {
	mirrors := cfg.Mirrors
	if len(mirrors) == 0 {
		mirrors = defaultMirrors
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: engine.DefaultHTTPTimeout}
	}
	return &SearXNG{mirrors: mirrors, client: client}
}

// Info returns the adapter's static metadata.
func (s *SearXNG) Info() engine.Info {
	return engine.Info{
		ID:            "searxng",
		Name:          "SearXNG",
		NeedsKey:      false,
		Capabilities:  []engine.Capability{engine.CapSearch, engine.CapImages, engine.CapNews},
		PrivacyRating: 0.9,
		// SearXNG forwards to engines with mixed operator support.
		Dialect:   engine.DialectPlain,
		RateLimit: engine.RateLimit{RequestsPerMinute: 10},
	}
}

// Available reports true when at least one mirror is configured.
func (s *SearXNG) Available() bool { return len(s.mirrors) > 0 }

type searxResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"publishedDate"`
	} `json:"results"`
	NumberOfResults int `json:"number_of_results"`
}

// Search tries each mirror until one answers. Context cancellation stops
// the failover loop immediately.
func (s *SearXNG) Search(ctx context.Context, q query.Query) (engine.Result, error) {
	var lastErr error
	for _, mirror := range s.mirrors {
		if err := ctx.Err(); err != nil {
			return engine.Result{}, err
		}

		res, err := s.searchMirror(ctx, mirror, q)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return engine.Result{}, err
		}
		lastErr = err
	}
	return engine.Result{}, fmt.Errorf("all mirrors failed: %w", lastErr)
}

func (s *SearXNG) searchMirror(ctx context.Context, mirror string, q query.Query) (engine.Result, error) {
	params := url.Values{
		"q":      {q.Text()},
		"format": {"json"},
		"pageno": {strconv.Itoa(q.Page())},
	}
	if q.Category() != "" {
		params.Set("categories", q.Category())
	}
	if q.SafeSearch() {
		params.Set("safesearch", "2")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirror+"/search?"+params.Encode(), nil)
	if err != nil {
		return engine.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return engine.Result{}, fmt.Errorf("searxng %s: %w", mirror, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.Result{}, fmt.Errorf("%w: %s returned %d", domain.ErrBadStatus, mirror, resp.StatusCode)
	}

	var body searxResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return engine.Result{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	items := make([]result.Item, 0, len(body.Results))
	for i, r := range body.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		it := result.Item{
			EngineID: "searxng",
			URL:      r.URL,
			Title:    r.Title,
			Snippet:  r.Content,
		}
		pos := i + 1
		it.Position = &pos
		if r.Score > 0 {
			// SearXNG scores are unbounded; squash into (0,1].
			it.SetScore(r.Score / (r.Score + 1))
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, r.PublishedDate); err == nil {
				it.PublishedAt = &ts
				break
			}
		}
		engine.Annotate(&it)
		items = append(items, it)
	}

	return engine.Result{Items: items, TotalResults: body.NumberOfResults}, nil
}
