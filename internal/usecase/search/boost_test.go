package search

import (
	"math"
	"testing"
	"time"

	"github.com/windrose-search/windrose/internal/domain/search/boost"
	"github.com/windrose-search/windrose/internal/domain/search/result"
)

func TestRingBoostMultipliers(t *testing.T) {
	members := []boost.RingMember{
		{Domain: "trusted.example", Verified: true, Trust: 1.0},
		{Domain: "plain.example"},
	}

	cases := []struct {
		name string
		url  string
		want float64
	}{
		// 0.5 * (1.25 + 0.10 + 0.15)
		{"verified full trust", "https://trusted.example/p", 0.75},
		// 0.5 * 1.25
		{"unverified no trust", "https://www.plain.example/p/", 0.625},
		{"non-member untouched", "https://other.example/p", 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := []result.Item{item("a", tc.url, 0.5, 1)}
			out := applyBoosts(items, boost.Config{Ring: members})
			if got := out[0].EffectiveScore(); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCommunityBoost(t *testing.T) {
	cfg := boost.Config{Community: &boost.Community{
		DomainPopularity: map[string]float64{"popular.example": 1.0},
		ShareCounts:      map[string]int{"shared.example/p": 9},
		Bookmarks:        map[string]struct{}{"marked.example/p": {}},
	}}

	t.Run("popularity", func(t *testing.T) {
		out := applyBoosts([]result.Item{item("a", "https://popular.example/p", 0.5, 1)}, cfg)
		want := 0.5 + 0.5*0.10 // +10% at full popularity
		if got := out[0].EffectiveScore(); math.Abs(got-want) > 1e-9 {
			t.Errorf("score = %v, want %v", got, want)
		}
	})

	t.Run("shares", func(t *testing.T) {
		out := applyBoosts([]result.Item{item("a", "https://shared.example/p", 0.5, 1)}, cfg)
		want := 0.5 + math.Log10(10)*0.05
		if got := out[0].EffectiveScore(); math.Abs(got-want) > 1e-9 {
			t.Errorf("score = %v, want %v", got, want)
		}
	})

	t.Run("bookmark", func(t *testing.T) {
		out := applyBoosts([]result.Item{item("a", "https://marked.example/p", 0.5, 1)}, cfg)
		want := 0.5 * 1.20
		if got := out[0].EffectiveScore(); math.Abs(got-want) > 1e-9 {
			t.Errorf("score = %v, want %v", got, want)
		}
	})
}

func TestRecencyBoost(t *testing.T) {
	cfg := boost.Config{Recency: &boost.Recency{}}

	fresh := item("a", "https://fresh.example/p", 0.5, 1)
	fresh.PublishedAt = ptr(time.Now().Add(-24 * time.Hour))

	stale := item("a", "https://stale.example/p", 0.5, 1)
	stale.PublishedAt = ptr(time.Now().Add(-90 * 24 * time.Hour))

	undated := item("a", "https://undated.example/p", 0.5, 1)

	out := applyBoosts([]result.Item{fresh, stale, undated}, cfg.Normalized())

	if out[0].URL != "https://fresh.example/p" {
		t.Errorf("fresh item not boosted to the top")
	}
	for _, it := range out {
		switch it.URL {
		case "https://fresh.example/p":
			if it.EffectiveScore() <= 0.5 {
				t.Error("fresh item score unchanged")
			}
		default:
			if it.EffectiveScore() != 0.5 {
				t.Errorf("%s score changed to %v", it.URL, it.EffectiveScore())
			}
		}
	}
}

func TestBoostsCapAtOne(t *testing.T) {
	members := []boost.RingMember{{Domain: "big.example", Verified: true, Trust: 1.0}}
	items := []result.Item{item("a", "https://big.example/p", 0.9, 1)}

	out := applyBoosts(items, boost.Config{Ring: members})
	if got := out[0].EffectiveScore(); got > 1.0 {
		t.Errorf("score %v exceeds cap", got)
	}
}

func TestBoostsResort(t *testing.T) {
	members := []boost.RingMember{{Domain: "member.example"}}
	items := []result.Item{
		item("a", "https://leader.example/p", 0.6, 1),
		item("a", "https://member.example/p", 0.55, 2),
	}

	out := applyBoosts(items, boost.Config{Ring: members})
	// 0.55 * 1.25 = 0.6875 > 0.6
	if out[0].URL != "https://member.example/p" {
		t.Error("boosted item not re-sorted to the top")
	}
}

func TestBoostStagesCompose(t *testing.T) {
	cfg := boost.Config{
		Ring: []boost.RingMember{{Domain: "both.example"}},
		Community: &boost.Community{
			Bookmarks: map[string]struct{}{"both.example/p": {}},
		},
	}

	out := applyBoosts([]result.Item{item("a", "https://both.example/p", 0.4, 1)}, cfg)
	// ring: 0.4*1.25 = 0.5; community bookmark: 0.5*1.20 = 0.6
	if got := out[0].EffectiveScore(); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("score = %v, want 0.6", got)
	}
}
