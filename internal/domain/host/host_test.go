package host

import "testing"

func TestIsIndieWeb(t *testing.T) {
	cases := []struct {
		domain string
		want   bool
	}{
		{"alice.neocities.org", true},
		{"blog.bearblog.dev", true},
		{"someone.github.io", true},
		{"example.com", true},       // two labels, no corporate marker
		{"www.example.com", true},   // www stripped before counting labels
		{"mystore.com", false},      // corporate marker
		{"cdn.bigcorp.example.com", false}, // too many labels
		{"shop.example.com", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.domain, func(t *testing.T) {
			if got := IsIndieWeb(tc.domain); got != tc.want {
				t.Errorf("IsIndieWeb(%q) = %v, want %v", tc.domain, got, tc.want)
			}
		})
	}
}

func TestPrivacyScore(t *testing.T) {
	cases := []struct {
		domain string
		want   float64
	}{
		{"duckduckgo.com", 0.9},
		{"www.duckduckgo.com", 0.9},
		{"en.wikipedia.org", 0.9}, // subdomain of allow-listed domain
		{"facebook.com", 0.2},
		{"ads.doubleclick.net", 0.2},
		{"example.com", 0.5},
		{"", 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.domain, func(t *testing.T) {
			if got := PrivacyScore(tc.domain); got != tc.want {
				t.Errorf("PrivacyScore(%q) = %v, want %v", tc.domain, got, tc.want)
			}
		})
	}
}

// Both heuristics must accept arbitrary garbage without panicking and stay
// inside their declared ranges.
func TestHeuristicsAreTotal(t *testing.T) {
	inputs := []string{
		"", " ", ".", "...", "no spaces allowed here",
		"https://not-a-domain/path", "\x00\xff", "....com",
		"a.very.deeply.nested.sub.domain.example.org",
	}

	for _, in := range inputs {
		_ = IsIndieWeb(in)
		score := PrivacyScore(in)
		if score < 0 || score > 1 {
			t.Errorf("PrivacyScore(%q) = %v out of [0,1]", in, score)
		}
	}
}
