// Package duckduckgo implements the engine contract against the
// DuckDuckGo HTML endpoint, which needs no API key.
package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/windrose-search/windrose/internal/domain"
	"github.com/windrose-search/windrose/internal/engine"
	"github.com/windrose-search/windrose/internal/domain/search/query"
	"github.com/windrose-search/windrose/internal/domain/search/result"
)

const defaultBaseURL = "https://html.duckduckgo.com/html/"

// Config holds optional adapter settings.
type Config struct {
	BaseURL string
	Client  *http.Client
}

// DuckDuckGo scrapes the JS-free HTML search page.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
}

// New creates a DuckDuckGo adapter.
func New(cfg Config) *DuckDuckGo {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: engine.DefaultHTTPTimeout}
	}
	return &DuckDuckGo{baseURL: base, client: client}
}

// Info returns the adapter's static metadata.
func (d *DuckDuckGo) Info() engine.Info {
	return engine.Info{
		ID:            "duckduckgo",
		Name:          "DuckDuckGo",
		NeedsKey:      false,
		Capabilities:  []engine.Capability{engine.CapSearch, engine.CapInstantAnswer, engine.CapSuggestions},
		PrivacyRating: 0.9,
		Dialect:       engine.DialectStandard,
		RateLimit:     engine.RateLimit{RequestsPerMinute: 20},
	}
}

// Available always reports true: no credential is required.
func (d *DuckDuckGo) Available() bool { return true }

// Search fetches and parses one page of HTML results.
func (d *DuckDuckGo) Search(ctx context.Context, q query.Query) (engine.Result, error) {
	params := url.Values{"q": {q.Text()}}
	if q.Site() != "" {
		params.Set("q", fmt.Sprintf("site:%s %s", q.Site(), q.Text()))
	}
	if q.SafeSearch() {
		params.Set("kp", "1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return engine.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		return engine.Result{}, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return engine.Result{}, fmt.Errorf("%w: %d", domain.ErrBadStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return engine.Result{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	items := d.parse(doc, q.PageSize())
	return engine.Result{Items: items, TotalResults: len(items)}, nil
}

// parse extracts result blocks from the HTML page. The HTML endpoint marks
// each hit with .result and redirects links through /l/?uddg=<target>.
func (d *DuckDuckGo) parse(doc *goquery.Document, limit int) []result.Item {
	var items []result.Item

	doc.Find(".result").Each(func(i int, s *goquery.Selection) {
		if len(items) >= limit {
			return
		}

		link := s.Find(".result__a")
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}

		it := result.Item{
			EngineID: "duckduckgo",
			URL:      unwrapRedirect(href),
			Title:    strings.TrimSpace(link.Text()),
			Snippet:  strings.TrimSpace(s.Find(".result__snippet").Text()),
		}
		if it.Title == "" {
			return
		}
		pos := i + 1
		it.Position = &pos
		if icon, ok := s.Find(".result__icon__img").Attr("src"); ok {
			it.FaviconURL = icon
		}
		engine.Annotate(&it)
		items = append(items, it)
	})

	return items
}

// unwrapRedirect resolves DuckDuckGo's /l/?uddg= redirect wrapper to the
// target URL. Unwrappable hrefs pass through unchanged.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
