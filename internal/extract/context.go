package extract

import (
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/cloudflare/ahocorasick"
)

// DefaultContextWindow is the number of characters kept on each side of a match
const DefaultContextWindow = 150

const sentimentStep = 0.15

// Keywords match at a word start, so "reliable" does not fire inside "unreliable".
// No keyword is a prefix of another in the same list.
var positiveKeywords = []string{
	"best", "leading", "excellent", "innovative", "trusted", "reliable",
	"award", "recommend", "popular", "great", "outstanding", "praise",
	"success", "strong", "impressive", "love", "top rated", "favorite",
}

var negativeKeywords = []string{
	"worst", "poor", "bad", "controvers", "lawsuit", "scandal",
	"complain", "critici", "fraud", "unreliable", "fail", "problem",
	"issue", "breach", "recall", "weak", "decline", "outage",
	"avoid",
}

// ExtractContext returns up to window characters on each side of position,
// trimmed, with "..." marking truncation. Offsets are in runes.
func ExtractContext(text string, position, window int) string {
	return contextFromRunes([]rune(text), position, window)
}

func contextFromRunes(runes []rune, position, window int) string {
	if window < 0 {
		window = 0
	}
	start := max(0, position-window)
	end := min(len(runes), position+window)
	if start > end {
		start = end
	}

	ctx := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		ctx = "..." + ctx
	}
	if end < len(runes) {
		ctx = ctx + "..."
	}
	return ctx
}

// sentimentScorer counts distinct polarity keywords with one automaton pass
type sentimentScorer struct {
	mu       sync.Mutex // Matcher keeps per-call state
	matcher  *ahocorasick.Matcher
	polarity []float64 // +1 or -1 per dictionary index
}

func newSentimentScorer() *sentimentScorer {
	dict := make([]string, 0, len(positiveKeywords)+len(negativeKeywords))
	polarity := make([]float64, 0, cap(dict))
	for _, kw := range positiveKeywords {
		dict = append(dict, normalizeForMatch(kw))
		polarity = append(polarity, 1)
	}
	for _, kw := range negativeKeywords {
		dict = append(dict, normalizeForMatch(kw))
		polarity = append(polarity, -1)
	}
	return &sentimentScorer{
		matcher:  ahocorasick.NewStringMatcher(dict),
		polarity: polarity,
	}
}

func (s *sentimentScorer) score(context string) float64 {
	if strings.TrimSpace(context) == "" {
		return 0
	}

	s.mu.Lock()
	hits := s.matcher.Match([]byte(normalizeForMatch(context)))
	s.mu.Unlock()

	seen := make(map[int]bool, len(hits))
	var score float64
	for _, idx := range hits {
		if idx < 0 || idx >= len(s.polarity) || seen[idx] {
			continue
		}
		seen[idx] = true
		score += s.polarity[idx] * sentimentStep
	}

	return round2(math.Max(-1, math.Min(1, score)))
}

var defaultScorer = newSentimentScorer()

// Sentiment scores context by counting distinct positive and negative keywords.
// Each keyword moves the score by 0.15; the result is clamped to [-1, 1].
func Sentiment(context string) float64 {
	return defaultScorer.score(context)
}

// normalizeForMatch lower-cases, replaces non-letters with spaces and adds a
// leading space so dictionary entries anchor at a word start
func normalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 1)
	b.WriteByte(' ')
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
