// Package optimize cleans and rewrites raw query text before dispatch:
// quoted phrases are protected, known typos corrected, and the result is
// formatted per target engine dialect.
package optimize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/windrose-search/windrose/internal/engine"
)

// MaxQueryLength is the hard cap applied after all transformations,
// truncating at a word boundary.
const MaxQueryLength = 200

// maxExpansionsPerTerm bounds synonym growth per recognized term.
const maxExpansionsPerTerm = 2

// Options toggles the optional pipeline stages.
type Options struct {
	SpellCorrect    bool
	RemoveStopWords bool
	ExpandSynonyms  bool
}

// DefaultOptions preserves user intent: only spell correction is on.
func DefaultOptions() Options {
	return Options{SpellCorrect: true}
}

// Service runs the optimization pipeline.
type Service struct {
	opts Options
}

// New creates an optimizer service.
func New(opts Options) *Service {
	return &Service{opts: opts}
}

var quotedRe = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// Optimize runs the engine-independent stages: phrase protection, typo
// correction, optional stop-word removal and synonym expansion, then
// reassembly, whitespace collapse and truncation. Empty input returns ""
// immediately.
func (s *Service) Optimize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// Stage 1: pull out quoted phrases; they bypass every transformation.
	var phrases []string
	remainder := quotedRe.ReplaceAllStringFunc(text, func(m string) string {
		phrases = append(phrases, strings.Trim(m, `"'`))
		return " "
	})

	words := strings.Fields(remainder)

	if s.opts.SpellCorrect {
		words = correctTypos(words)
	}
	if s.opts.RemoveStopWords {
		words = removeStopWords(words)
	}
	if s.opts.ExpandSynonyms {
		words = expandSynonyms(words)
	}

	// Stage 5: protected phrases first, re-quoted, then the remainder.
	parts := make([]string, 0, len(phrases)+1)
	for _, p := range phrases {
		parts = append(parts, `"`+p+`"`)
	}
	if len(words) > 0 {
		parts = append(parts, strings.Join(words, " "))
	}

	return truncate(strings.Join(parts, " "))
}

// ForDialect applies engine-specific formatting to already-optimized text.
// Plain-dialect engines cannot honor advanced operators, so those tokens
// are stripped.
func (s *Service) ForDialect(text string, d engine.Dialect) string {
	if d != engine.DialectPlain {
		return text
	}
	return truncate(stripOperators(text))
}

func correctTypos(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		if fixed, ok := typoCorrections[strings.ToLower(w)]; ok {
			out[i] = fixed
		} else {
			out[i] = w
		}
	}
	return out
}

func removeStopWords(words []string) []string {
	out := words[:0:0]
	for _, w := range words {
		if isCapitalized(w) {
			out = append(out, w)
			continue
		}
		if _, stop := stopWords[strings.ToLower(w)]; !stop {
			out = append(out, w)
		}
	}
	return out
}

func isCapitalized(w string) bool {
	for _, r := range w {
		return unicode.IsUpper(r)
	}
	return false
}

// expandSynonyms appends up to maxExpansionsPerTerm synonyms for each
// recognized term. Two-word phrases are matched before single words so
// "indie web" expands as a unit.
func expandSynonyms(words []string) []string {
	out := make([]string, 0, len(words))
	var extras []string

	for i := 0; i < len(words); i++ {
		out = append(out, words[i])

		if i+1 < len(words) {
			pair := strings.ToLower(words[i] + " " + words[i+1])
			if syns, ok := synonyms[pair]; ok {
				extras = append(extras, cap2(syns)...)
				out = append(out, words[i+1])
				i++
				continue
			}
		}
		if syns, ok := synonyms[strings.ToLower(words[i])]; ok {
			extras = append(extras, cap2(syns)...)
		}
	}

	return append(out, extras...)
}

func cap2(syns []string) []string {
	if len(syns) > maxExpansionsPerTerm {
		return syns[:maxExpansionsPerTerm]
	}
	return syns
}

// operatorPrefixes are advanced-search operators some backends reject.
var operatorPrefixes = []string{"site:", "filetype:", "intitle:", "inurl:", "ext:", "before:", "after:"}

func stripOperators(text string) string {
	words := strings.Fields(text)
	out := words[:0:0]
	for _, w := range words {
		lower := strings.ToLower(w)
		skip := false
		for _, op := range operatorPrefixes {
			if strings.HasPrefix(lower, op) {
				skip = true
				break
			}
		}
		if !skip && strings.HasPrefix(w, "-") && len(w) > 1 {
			skip = true
		}
		if !skip {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

// truncate collapses whitespace and hard-caps at MaxQueryLength on a word
// boundary.
func truncate(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= MaxQueryLength {
		return text
	}
	cut := text[:MaxQueryLength]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut
}
