// Package canonical normalizes URLs into comparable keys. Two results refer
// to the same page iff their keys are equal. Normalization is total: a
// malformed URL falls back to string-level cleanup instead of an error.
package canonical

import (
	"net/url"
	"sort"
	"strings"
)

// keptParams are the only query parameters that survive normalization —
// identifiers, pagination and video-id style params that change the page.
var keptParams = map[string]struct{}{
	"id":      {},
	"p":       {},
	"page":    {},
	"q":       {},
	"v":       {},
	"t":       {},
	"article": {},
	"post":    {},
}

// Normalized is the comparable form of a URL. Derived on demand, not stored.
type Normalized struct {
	Original string
	Key      string
	Domain   string
	Path     string
}

// Normalize parses a URL and reduces it to domain + path + whitelisted
// params. Scheme, "www.", trailing slashes and tracking params never
// affect the key. Idempotent: Normalize(n.Key).Key == n.Key.
func Normalize(raw string) Normalized {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Normalized{Original: raw, Key: "", Domain: "", Path: "/"}
	}

	parseable := trimmed
	if !strings.Contains(parseable, "://") {
		parseable = "https://" + parseable
	}

	u, err := url.Parse(parseable)
	if err != nil || u.Host == "" {
		return fallback(raw, trimmed)
	}

	domain := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}

	key := domain + path
	if kept := keepParams(u.Query()); kept != "" {
		key += "?" + kept
	}

	return Normalized{Original: raw, Key: key, Domain: domain, Path: path}
}

// keepParams filters the query string down to the whitelist, sorted for a
// stable key.
func keepParams(values url.Values) string {
	names := make([]string, 0, len(values))
	for name := range values {
		if _, ok := keptParams[strings.ToLower(name)]; ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(strings.ToLower(name))
		b.WriteByte('=')
		b.WriteString(values.Get(name))
	}
	return b.String()
}

// fallback produces a best-effort key when parsing fails.
func fallback(original, trimmed string) Normalized {
	s := strings.ToLower(trimmed)
	for _, scheme := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, scheme)
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimRight(s, "/")

	domain := s
	path := "/"
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		domain = s[:i]
	}

	return Normalized{Original: original, Key: s, Domain: domain, Path: path}
}
