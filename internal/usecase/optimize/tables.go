package optimize

// typoCorrections maps common misspellings to their correction.
// Matching is case-insensitive and exact — no fuzzy distance.
var typoCorrections = map[string]string{
	"javscript":  "javascript",
	"javascirpt": "javascript",
	"pyton":      "python",
	"pythn":      "python",
	"tutroial":   "tutorial",
	"tutorail":   "tutorial",
	"recieve":    "receive",
	"seperate":   "separate",
	"definately": "definitely",
	"accomodate": "accommodate",
	"occured":    "occurred",
	"adress":     "address",
	"wierd":      "weird",
	"teh":        "the",
	"hwo":        "how",
	"waht":       "what",
	"whihc":      "which",
	"becuase":    "because",
	"lenght":     "length",
	"heigth":     "height",
	"widht":      "width",
	"databse":    "database",
	"serach":     "search",
	"privcy":     "privacy",
}

// stopWords are dropped when stop-word removal is enabled. Capitalized
// tokens are spared: capitalization usually marks a name.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {},
}

// synonyms expands recognized terms. Two-word phrases are checked before
// single words. Each term contributes at most maxExpansionsPerTerm extras.
var synonyms = map[string][]string{
	"indie web":     {"smallweb", "personal sites"},
	"small web":     {"indieweb", "personal sites"},
	"search engine": {"metasearch", "web search"},
	"blog":          {"weblog", "journal"},
	"privacy":       {"anonymity", "confidentiality"},
	"tutorial":      {"guide", "howto"},
	"free":          {"libre", "open source"},
	"fast":          {"quick", "performant"},
	"error":         {"bug", "failure"},
}
