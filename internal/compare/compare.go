// Package compare diffs two citation tracking results.
package compare

import (
	"github.com/ppiankov/citewatch/internal/analyze"
	"github.com/ppiankov/citewatch/internal/model"
)

// identity is the exact, case-sensitive key of a citation across snapshots
type identity struct {
	url  string
	text string
}

func identityOf(c model.Citation) identity {
	return identity{url: c.URL, text: c.Text}
}

// Compare reports citations gained and lost between two results and the trend
// of the citation count. Inputs are not validated; nil results count as empty.
func Compare(previous, current *model.Result) model.Comparison {
	prev := orEmpty(previous)
	cur := orEmpty(current)

	countChange := cur.Stats.Total - prev.Stats.Total

	return model.Comparison{
		NewCitations:  difference(cur.Citations, prev.Citations),
		LostCitations: difference(prev.Citations, cur.Citations),
		CountChange:   countChange,
		QualityChange: analyze.Round2(cur.Stats.AverageQuality - prev.Stats.AverageQuality),
		PreviousStats: prev.Stats,
		CurrentStats:  cur.Stats,
		Trend:         trendOf(countChange),
	}
}

// difference returns citations in a whose identity is absent from b, in a's order
func difference(a, b []model.Citation) []model.Citation {
	seen := make(map[identity]bool, len(b))
	for _, c := range b {
		seen[identityOf(c)] = true
	}

	out := []model.Citation{}
	for _, c := range a {
		if !seen[identityOf(c)] {
			out = append(out, c)
		}
	}
	return out
}

func trendOf(countChange int) model.Trend {
	switch {
	case countChange > 0:
		return model.TrendImproving
	case countChange < 0:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}

func orEmpty(r *model.Result) *model.Result {
	if r == nil {
		return &model.Result{}
	}
	return r
}
