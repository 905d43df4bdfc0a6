// Package result defines the search hit produced by engine adapters.
// Scores and positions are adapter-local and not comparable across engines
// until fused.
package result

import "time"

// DefaultScore is the effective score of an item whose engine reported none.
const DefaultScore = 0.5

// ContentType tags the kind of page a result points at.
type ContentType string

const (
	ContentBlog       ContentType = "blog"
	ContentForum      ContentType = "forum"
	ContentPersonal   ContentType = "personal"
	ContentWiki       ContentType = "wiki"
	ContentCommercial ContentType = "commercial"
	ContentUnknown    ContentType = "unknown"
)

// Item is a single search result from one engine. Optional numeric fields
// use pointers so "absent" and "zero" stay distinct.
type Item struct {
	EngineID string
	URL      string
	Title    string
	Snippet  string

	Score    *float64 // 0..1, engine-native
	Position *int     // 1-based rank within the engine's own list

	FaviconURL  string
	PublishedAt *time.Time

	PrivacyScore *float64 // 0..1
	IndieWeb     *bool
	HasTrackers  bool
	HasCookies   bool

	ContentType ContentType

	// Meta carries engine-specific extras that survive the pipeline opaque.
	Meta map[string]any
}

// EffectiveScore returns the item's score with the missing-score default
// applied. Every component that reads a score goes through this accessor so
// the default is applied exactly once and consistently.
func (it *Item) EffectiveScore() float64 {
	if it.Score == nil {
		return DefaultScore
	}
	return *it.Score
}

// SetScore replaces the item's score, clamping into [0,1].
func (it *Item) SetScore(s float64) {
	if s > 1 {
		s = 1
	}
	if s < 0 {
		s = 0
	}
	it.Score = &s
}

// EffectivePosition returns the item's rank with the missing-position
// default applied (an engine that reports no rank is treated as rank 20).
func (it *Item) EffectivePosition() int {
	if it.Position == nil {
		return 20
	}
	return *it.Position
}

// IsIndie reports the indie-web flag, false when unset.
func (it *Item) IsIndie() bool {
	return it.IndieWeb != nil && *it.IndieWeb
}

// Richness counts the populated optional fields. Dedupe uses it to break
// score ties: the better-described duplicate survives.
func (it *Item) Richness() int {
	n := 0
	if it.Snippet != "" {
		n++
	}
	if it.FaviconURL != "" {
		n++
	}
	if it.PublishedAt != nil {
		n++
	}
	if it.PrivacyScore != nil {
		n++
	}
	if it.IndieWeb != nil {
		n++
	}
	if it.ContentType != "" && it.ContentType != ContentUnknown {
		n++
	}
	return n
}
