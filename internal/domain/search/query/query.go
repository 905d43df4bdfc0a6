package query

import (
	"fmt"
	"strings"

	"github.com/windrose-search/windrose/internal/domain"
)

// Query parameter limits.
const (
	MaxTextLength   = 400
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Query is a validated, immutable search request.
type Query struct {
	text       string
	page       int
	pageSize   int
	site       string
	category   string
	safeSearch bool
}

// New validates and normalizes search parameters.
// Defaults: page=1, pageSize=20. pageSize is clamped to MaxPageSize.
func New(text string, page, pageSize int, site, category string, safeSearch bool) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, domain.ErrEmptyQuery
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxTextLength)
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Query{
		text:       text,
		page:       page,
		pageSize:   pageSize,
		site:       strings.TrimSpace(site),
		category:   strings.TrimSpace(category),
		safeSearch: safeSearch,
	}, nil
}

// WithText returns a copy carrying different query text. Used by the
// orchestrator after running the optimizer.
func (q Query) WithText(text string) Query {
	q.text = text
	return q
}

// Text returns the query text.
func (q *Query) Text() string { return q.text }

// Page returns the 1-based page index.
func (q *Query) Page() int { return q.page }

// PageSize returns the requested result count per page.
func (q *Query) PageSize() int { return q.pageSize }

// Site returns the optional site-scope filter (empty when unset).
func (q *Query) Site() string { return q.site }

// Category returns the optional category (empty when unset).
func (q *Query) Category() string { return q.category }

// SafeSearch reports whether safe-search filtering was requested.
func (q *Query) SafeSearch() bool { return q.safeSearch }
