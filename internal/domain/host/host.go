// Package host classifies hostnames: indie-web detection and a coarse
// privacy score. Both functions are pure and total — any string input,
// including garbage, yields a value in the declared range.
package host

import "strings"

// indieSuffixes are free-hosting and small-web platforms whose presence
// marks a domain as indie regardless of shape.
var indieSuffixes = []string{
	".neocities.org",
	".bearblog.dev",
	".micro.blog",
	".omg.lol",
	".tilde.team",
	".tilde.club",
	".dreamwidth.org",
	".smol.pub",
	".leprd.space",
	".github.io",
	".gitlab.io",
	".codeberg.page",
	".netlify.app",
	".writeas.com",
	".wordpress.com",
	".blogspot.com",
}

// corporateMarkers are substrings that rule out the "personal domain"
// heuristic for two-label hosts.
var corporateMarkers = []string{
	"shop", "store", "cloud", "corp", "inc", "official",
	"app", "api", "cdn", "ads", "track", "media", "platform",
}

// privacyAllow maps known privacy-respecting services to a high score.
var privacyAllow = map[string]struct{}{
	"duckduckgo.com":       {},
	"startpage.com":        {},
	"searx.be":             {},
	"mojeek.com":           {},
	"brave.com":            {},
	"search.marginalia.nu": {},
	"wikipedia.org":        {},
	"archive.org":          {},
	"proton.me":            {},
	"tutanota.com":         {},
	"signal.org":           {},
	"codeberg.org":         {},
	"sr.ht":                {},
}

// privacyDeny maps tracker-heavy platforms to a low score.
var privacyDeny = map[string]struct{}{
	"facebook.com":    {},
	"instagram.com":   {},
	"tiktok.com":      {},
	"twitter.com":     {},
	"x.com":           {},
	"linkedin.com":    {},
	"pinterest.com":   {},
	"amazon.com":      {},
	"google.com":      {},
	"youtube.com":     {},
	"doubleclick.net": {},
	"outbrain.com":    {},
	"taboola.com":     {},
}

// IsIndieWeb reports whether a domain looks like a personal or small-web
// site. A domain qualifies if it sits on a known indie hosting platform,
// or if it has at most two labels and no corporate-sounding substring.
func IsIndieWeb(domain string) bool {
	d := clean(domain)
	if d == "" {
		return false
	}

	for _, suffix := range indieSuffixes {
		if strings.HasSuffix(d, suffix) || d == suffix[1:] {
			return true
		}
	}

	labels := strings.Split(d, ".")
	if len(labels) > 2 {
		return false
	}
	for _, marker := range corporateMarkers {
		if strings.Contains(d, marker) {
			return false
		}
	}
	return true
}

// PrivacyScore estimates how privacy-respecting a domain is.
// 0.9 for curated privacy-friendly services, 0.2 for tracker-heavy
// platforms, 0.5 for everything else.
func PrivacyScore(domain string) float64 {
	d := clean(domain)

	if _, ok := privacyAllow[d]; ok {
		return 0.9
	}
	if _, ok := privacyDeny[d]; ok {
		return 0.2
	}

	// Subdomains inherit the parent's reputation.
	for allowed := range privacyAllow {
		if strings.HasSuffix(d, "."+allowed) {
			return 0.9
		}
	}
	for denied := range privacyDeny {
		if strings.HasSuffix(d, "."+denied) {
			return 0.2
		}
	}

	return 0.5
}

func clean(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "www.")
	return strings.Trim(d, ".")
}
