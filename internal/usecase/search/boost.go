package search

import (
	"math"
	"sort"
	"time"

	"github.com/windrose-search/windrose/internal/domain/canonical"
	"github.com/windrose-search/windrose/internal/domain/search/boost"
	"github.com/windrose-search/windrose/internal/domain/search/result"
)

// applyBoosts runs the post-fusion stages in fixed order — ring,
// community, recency — then re-sorts descending. Each stage reads the
// effective score and caps its output at 1.0.
func applyBoosts(items []result.Item, cfg boost.Config) []result.Item {
	for i := range items {
		n := canonical.Normalize(items[i].URL)

		if len(cfg.Ring) > 0 {
			ringBoost(&items[i], n.Domain, cfg.Ring)
		}
		if cfg.Community != nil {
			communityBoost(&items[i], n, cfg.Community)
		}
		if cfg.Recency != nil {
			recencyBoost(&items[i], cfg.Recency, time.Now())
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].EffectiveScore() > items[j].EffectiveScore()
	})
	return items
}

// ringBoost rewards webring members: base multiplier 1.25, +0.10 when the
// member is verified, plus up to +0.15 scaled by its trust score.
func ringBoost(it *result.Item, domain string, members []boost.RingMember) {
	for _, m := range members {
		if canonical.Normalize(m.Domain).Domain != domain {
			continue
		}
		multiplier := 1.25
		if m.Verified {
			multiplier += 0.10
		}
		multiplier += 0.15 * clamp01(m.Trust)
		it.SetScore(it.EffectiveScore() * multiplier)
		return
	}
}

// communityBoost adds social-signal contributions: up to +10% of the
// current score scaled by domain popularity, a logarithmic share-count
// term, and +20% when the exact URL is bookmarked.
func communityBoost(it *result.Item, n canonical.Normalized, c *boost.Community) {
	base := it.EffectiveScore()
	score := base

	if pop, ok := c.DomainPopularity[n.Domain]; ok {
		score += base * 0.10 * clamp01(pop)
	}
	if shares, ok := c.ShareCounts[n.Key]; ok && shares > 0 {
		score += math.Log10(float64(shares)+1) * 0.05
	}
	if _, ok := c.Bookmarks[n.Key]; ok {
		score += base * 0.20
	}

	it.SetScore(score)
}

// recencyBoost adds an exponentially decaying freshness bonus to items
// published inside the window. Items without a parseable date, or older
// than the window, are untouched.
func recencyBoost(it *result.Item, r *boost.Recency, now time.Time) {
	if it.PublishedAt == nil {
		return
	}
	ageDays := now.Sub(*it.PublishedAt).Hours() / 24
	if ageDays < 0 || ageDays > boost.RecencyWindowDays {
		return
	}
	bonus := r.MaxBoost * math.Exp(-r.DecayRate*ageDays)
	it.SetScore(it.EffectiveScore() + bonus)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
