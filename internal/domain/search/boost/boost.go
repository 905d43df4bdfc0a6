// Package boost holds the caller-supplied inputs for post-fusion score
// adjustments: webring membership, community signals and recency decay.
// The core never computes these — they are read-only data passed in.
package boost

// Recency defaults.
const (
	DefaultMaxBoost   = 0.2
	DefaultDecayRate  = 0.1
	RecencyWindowDays = 30
)

// RingMember is one entry of a webring membership list, matched against
// canonical result domains.
type RingMember struct {
	Domain   string
	Verified bool
	Trust    float64 // 0..1
}

// Community aggregates social signals keyed by canonical domain or URL key.
type Community struct {
	// DomainPopularity maps canonical domains to a 0..1 popularity score.
	DomainPopularity map[string]float64
	// ShareCounts maps canonical URL keys to recent share counts.
	ShareCounts map[string]int
	// Bookmarks holds canonical URL keys the caller has bookmarked.
	Bookmarks map[string]struct{}
}

// Recency configures the exponential freshness boost.
type Recency struct {
	MaxBoost  float64
	DecayRate float64
}

// Config selects which boost stages run. A nil stage is skipped; a nil
// Config disables the whole pipeline.
type Config struct {
	Ring      []RingMember
	Community *Community
	Recency   *Recency
}

// Normalized returns a copy with recency defaults applied.
func (c *Config) Normalized() Config {
	out := *c
	if out.Recency != nil {
		r := *out.Recency
		if r.MaxBoost <= 0 {
			r.MaxBoost = DefaultMaxBoost
		}
		if r.DecayRate <= 0 {
			r.DecayRate = DefaultDecayRate
		}
		out.Recency = &r
	}
	return out
}
