// Package filter defines post-merge result constraints. Filtering runs
// after dedupe and before truncation to the requested page size.
package filter

import "github.com/windrose-search/windrose/internal/domain/search/result"

// PrivacyThreshold is the minimum privacy score PrivacyOnly admits.
const PrivacyThreshold = 0.7

// Constraints narrows a merged result set. The zero value admits everything.
type Constraints struct {
	IndieOnly    bool
	PrivacyOnly  bool
	NoTrackers   bool
	ContentTypes []result.ContentType
}

// IsEmpty reports whether the constraints admit every item.
func (c *Constraints) IsEmpty() bool {
	return c == nil ||
		(!c.IndieOnly && !c.PrivacyOnly && !c.NoTrackers && len(c.ContentTypes) == 0)
}

// Allows reports whether an item satisfies every requested constraint.
func (c *Constraints) Allows(it *result.Item) bool {
	if c.IsEmpty() {
		return true
	}
	if c.IndieOnly && !it.IsIndie() {
		return false
	}
	if c.PrivacyOnly && (it.PrivacyScore == nil || *it.PrivacyScore < PrivacyThreshold) {
		return false
	}
	if c.NoTrackers && it.HasTrackers {
		return false
	}
	if len(c.ContentTypes) > 0 {
		found := false
		for _, ct := range c.ContentTypes {
			if it.ContentType == ct {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
