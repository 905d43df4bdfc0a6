package search

import (
	"math"
	"sort"

	"github.com/windrose-search/windrose/internal/domain/canonical"
	"github.com/windrose-search/windrose/internal/domain/search/result"
)

// Fusion constants. rrfK follows Cormack et al. 2009; the weights blend
// placement with the engine's native score so neither dominates.
const (
	rrfK           = 60
	rankWeight     = 0.7
	scoreWeight    = 0.3
	groupBonus     = 0.1
	indieBoost     = 1.3
	privacyBoost   = 1.1
	privacyBar     = 0.7
	trackerPenalty = 0.9
)

// dedupe collapses items sharing a canonical URL key. Within a group the
// higher effective score wins; ties go to the item with more metadata.
// Output keeps first-seen key order.
func dedupe(items []result.Item) []result.Item {
	best := make(map[string]result.Item, len(items))
	var order []string

	for _, it := range items {
		key := canonical.Normalize(it.URL).Key
		cur, seen := best[key]
		if !seen {
			best[key] = it
			order = append(order, key)
			continue
		}
		if better(&it, &cur) {
			best[key] = it
		}
	}

	out := make([]result.Item, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

// better reports whether a should replace b as a group's representative.
func better(a, b *result.Item) bool {
	sa, sb := a.EffectiveScore(), b.EffectiveScore()
	if sa != sb {
		return sa > sb
	}
	return a.Richness() > b.Richness()
}

// fuse combines per-engine rankings into one fused score per canonical
// key and sorts descending. For each group the fused score is the item
// average of rankWeight/(k+position) + scoreWeight*nativeScore, plus a
// logarithmic multi-engine bonus, adjusted for indie-web, privacy and
// tracker signals of the representative item.
func fuse(items []result.Item) []result.Item {
	type group struct {
		rep result.Item
		sum float64
		n   int
	}

	groups := make(map[string]*group, len(items))
	var order []string

	for _, it := range items {
		key := canonical.Normalize(it.URL).Key
		contribution := rankWeight*reciprocalRank(it.EffectivePosition()) +
			scoreWeight*it.EffectiveScore()

		g, ok := groups[key]
		if !ok {
			groups[key] = &group{rep: it, sum: contribution, n: 1}
			order = append(order, key)
			continue
		}
		g.sum += contribution
		g.n++
		if better(&it, &g.rep) {
			g.rep = it
		}
	}

	out := make([]result.Item, 0, len(order))
	for _, key := range order {
		g := groups[key]

		fused := g.sum / float64(g.n)
		fused += math.Log(float64(g.n)+1) * groupBonus

		if g.rep.IsIndie() {
			fused *= indieBoost
		}
		if g.rep.PrivacyScore != nil && *g.rep.PrivacyScore > privacyBar {
			fused *= privacyBoost
		}
		if g.rep.HasTrackers {
			fused *= trackerPenalty
		}

		it := g.rep
		it.SetScore(fused)
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveScore() > out[j].EffectiveScore()
	})
	return out
}

// reciprocalRank is the RRF contribution for a 1-based position.
func reciprocalRank(position int) float64 {
	return 1.0 / float64(rrfK+position)
}

// balance interleaves results round-robin across engines: each engine's
// items sorted by its own score descending, then one item per engine per
// round until all are exhausted. Source diversity is traded for pure
// relevance ordering so no single engine's volume crowds out the rest.
func balance(items []result.Item) []result.Item {
	byEngine := make(map[string][]result.Item)
	var engines []string

	for _, it := range items {
		if _, ok := byEngine[it.EngineID]; !ok {
			engines = append(engines, it.EngineID)
		}
		byEngine[it.EngineID] = append(byEngine[it.EngineID], it)
	}

	for _, id := range engines {
		group := byEngine[id]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].EffectiveScore() > group[j].EffectiveScore()
		})
	}

	out := make([]result.Item, 0, len(items))
	for round := 0; len(out) < len(items); round++ {
		for _, id := range engines {
			if group := byEngine[id]; round < len(group) {
				out = append(out, group[round])
			}
		}
	}
	return out
}
