package extract

import (
	"regexp"
	"strings"
)

// Pattern is a named prose template. Group selects the capture that holds the
// cited source.
type Pattern struct {
	Name  string
	Re    *regexp.Regexp
	Group int
}

// urlPattern matches http(s) URLs up to whitespace or markup delimiters
var urlPattern = regexp.MustCompile(`(?i)https?://[^\s<>"'\[\]{}|\\^` + "`" + `]+`)

// yearPattern finds a four-digit year in a textual citation
var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// sourceSpan captures up to eight words and stops at clause punctuation
const sourceSpan = `[^\s,.;:!?()\[\]"“”]+(?:[ \t]+[^\s,.;:!?()\[\]"“”]+){0,7}`

// prosePatterns are scanned in this order; earlier patterns win dedup ties
var prosePatterns = []Pattern{
	{
		Name:  "according-to",
		Re:    regexp.MustCompile(`(?i:\baccording to)\s+(` + sourceSpan + `)`),
		Group: 1,
	},
	{
		Name:  "study-by",
		Re:    regexp.MustCompile(`(?i:\b(?:study|survey|report|analysis|research|paper|review)\s+(?:conducted by|published by|by|from))\s+(` + sourceSpan + `)`),
		Group: 1,
	},
	{
		Name:  "published-in",
		Re:    regexp.MustCompile(`(?i:\b(?:published|reported|featured|appeared)\s+in)\s+(` + sourceSpan + `)`),
		Group: 1,
	},
	{
		Name:  "reported-by",
		Re:    regexp.MustCompile(`(?i:\b(?:reported by|cited by|as noted by|as stated by))\s+(` + sourceSpan + `)`),
		Group: 1,
	},
	{
		Name:  "quote-attribution",
		Re:    regexp.MustCompile(`["“]([^"“”\n]{10,200})["”]\s*,?\s*(?i:said|says|wrote|noted|stated|explained)\s+(` + sourceSpan + `)`),
		Group: 2,
	},
	{
		Name:  "source-label",
		Re:    regexp.MustCompile(`(?im)^[ \t]*(?:sources?|via|refs?|references?)[ \t]*:[ \t]*([^\n]{3,200})`),
		Group: 1,
	},
	{
		Name:  "bracket-author-year",
		Re:    regexp.MustCompile(`\[([A-Z][^\[\]\n]{2,120}?,\s*(?:19|20)\d{2})\]`),
		Group: 1,
	},
	{
		Name:  "paren-author-year",
		Re:    regexp.MustCompile(`\(([A-Z][A-Za-z&.'-]+(?:\s+(?:et al\.|and|&)\s*[A-Z]?[A-Za-z.'-]*)?,?\s+(?:19|20)\d{2})\)`),
		Group: 1,
	},
}

// Patterns returns the prose patterns in scan order
func Patterns() []Pattern {
	out := make([]Pattern, len(prosePatterns))
	copy(out, prosePatterns)
	return out
}

// clauseWords end a captured source: "Harvard University found that ..." -> "Harvard University"
var clauseWords = map[string]bool{
	"is": true, "are": true, "was": true, "were": true, "has": true, "have": true, "had": true,
	"found": true, "finds": true, "shows": true, "showed": true, "says": true, "said": true,
	"suggests": true, "notes": true, "noted": true, "reports": true, "reported": true,
	"ranked": true, "rated": true, "named": true, "called": true, "that": true, "which": true, "who": true,
	// Heads of the next attribution phrase
	"according": true, "cited": true, "citing": true, "published": true, "per": true,
}

// connectorWords are dropped from the end of a captured source
var connectorWords = map[string]bool{
	"a": true, "an": true, "and": true, "or": true, "the": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true,
}

const citationTrimSet = " \t\r\n\"'“”‘’.,;:!?()[]*"

// cleanCitationText trims surrounding punctuation, cuts the capture at the
// first clause word and drops trailing connector words
func cleanCitationText(s string) string {
	words := strings.Fields(strings.Trim(s, citationTrimSet))
	for i := 1; i < len(words); i++ {
		if clauseWords[strings.ToLower(words[i])] {
			words = words[:i]
			break
		}
	}
	for len(words) > 1 && connectorWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.Trim(strings.Join(words, " "), citationTrimSet)
}

const urlTrailingPunct = ".,;:!?'\"*"

// NormalizeURL strips trailing punctuation and an unbalanced closing parenthesis
func NormalizeURL(raw string) string {
	u := raw
	for {
		trimmed := strings.TrimRight(u, urlTrailingPunct)
		if strings.HasSuffix(trimmed, ")") && strings.Count(trimmed, ")") > strings.Count(trimmed, "(") {
			trimmed = trimmed[:len(trimmed)-1]
		}
		if trimmed == u {
			return u
		}
		u = trimmed
	}
}
