package brave

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/windrose-search/windrose/internal/domain"
	"github.com/windrose-search/windrose/internal/domain/search/query"
)

const sampleBody = `{
  "web": {
    "results": [
      {"title": "First", "url": "https://foo.com/a", "description": "d1",
       "page_age": "2026-08-20T10:00:00Z"},
      {"title": "Second", "url": "https://bar.org/b", "description": "d2"},
      {"title": "", "url": "https://skip.me/"}
    ],
    "total_count": 1234
  }
}`

func TestSearchParsesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Subscription-Token") != "test-key" {
			t.Errorf("missing subscription token header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	b := New(Config{APIKey: "test-key", BaseURL: srv.URL, Client: srv.Client()})
	if !b.Available() {
		t.Fatal("adapter with key should be available")
	}

	q, _ := query.New("anything", 1, 10, "", "", false)
	res, err := b.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(res.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(res.Items))
	}
	if res.TotalResults != 1234 {
		t.Errorf("TotalResults = %d", res.TotalResults)
	}
	if res.Items[0].PublishedAt == nil {
		t.Error("page_age not parsed into PublishedAt")
	}
	if res.Items[1].PublishedAt != nil {
		t.Error("missing page_age should leave PublishedAt nil")
	}
}

func TestSearchWithoutKey(t *testing.T) {
	t.Setenv("WINDROSE_BRAVE_API_KEY", "")
	b := New(Config{})

	if b.Available() {
		t.Error("adapter without key should be unavailable")
	}

	q, _ := query.New("x", 1, 10, "", "", false)
	_, err := b.Search(context.Background(), q)
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestKeyFallsBackToEnv(t *testing.T) {
	t.Setenv("WINDROSE_BRAVE_API_KEY", "from-env")
	b := New(Config{})
	if !b.Available() {
		t.Error("env var key should make adapter available")
	}
}

func TestSearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	b := New(Config{APIKey: "k", BaseURL: srv.URL, Client: srv.Client()})
	q, _ := query.New("x", 1, 10, "", "", false)
	if _, err := b.Search(context.Background(), q); !errors.Is(err, domain.ErrMalformedResponse) {
		t.Errorf("err = %v, want ErrMalformedResponse", err)
	}
}
