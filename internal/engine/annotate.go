package engine

import (
	"strings"

	"github.com/windrose-search/windrose/internal/domain/canonical"
	"github.com/windrose-search/windrose/internal/domain/host"
	"github.com/windrose-search/windrose/internal/domain/search/result"
)

// Annotate fills the heuristic fields adapters share: privacy score,
// indie-web flag and a best-effort content type, all derived from the
// result's domain. Fields the adapter already set are left alone.
func Annotate(it *result.Item) {
	domain := canonical.Normalize(it.URL).Domain

	if it.PrivacyScore == nil {
		score := host.PrivacyScore(domain)
		it.PrivacyScore = &score
	}
	if it.IndieWeb == nil {
		indie := host.IsIndieWeb(domain)
		it.IndieWeb = &indie
	}
	if it.ContentType == "" {
		it.ContentType = guessContentType(domain, it.URL)
	}
	if it.PrivacyScore != nil && *it.PrivacyScore <= 0.2 {
		it.HasTrackers = true
	}
}

// guessContentType classifies by domain and path shape. Coarse on purpose;
// adapters with real signals override it.
func guessContentType(domain, url string) result.ContentType {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(domain, "wiki"):
		return result.ContentWiki
	case strings.Contains(domain, "forum") || strings.Contains(lower, "/thread"),
		strings.Contains(domain, "discuss"):
		return result.ContentForum
	case strings.Contains(lower, "/blog") || strings.Contains(domain, "blog"):
		return result.ContentBlog
	case host.IsIndieWeb(domain):
		return result.ContentPersonal
	case strings.Contains(domain, "shop") || strings.Contains(domain, "store"):
		return result.ContentCommercial
	default:
		return result.ContentUnknown
	}
}
