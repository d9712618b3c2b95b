package analyze

import (
	"math"
	"sort"

	"github.com/ppiankov/citewatch/internal/model"
)

// maxTopDomains bounds Stats.TopDomains
const maxTopDomains = 5

// ComputeStats calculates aggregate metrics. An empty list yields zero stats.
func ComputeStats(citations []model.Citation, brand string) model.Stats {
	total := len(citations)
	if total == 0 {
		return model.Stats{}
	}

	var qualitySum, sentimentSum float64
	var brandCount, highCount int
	domains := make(map[string]int)

	for _, c := range citations {
		qualitySum += c.Quality.Weight()
		sentimentSum += c.Sentiment
		if c.IsBrandRelated {
			brandCount++
		}
		if c.Quality == model.QualityHigh {
			highCount++
		}
		if c.Domain != "" {
			domains[c.Domain]++
		}
	}

	n := float64(total)
	stats := model.Stats{
		Total:              total,
		AverageQuality:     Round2(qualitySum / n),
		UniqueDomains:      len(domains),
		HighAuthorityRatio: Round2(float64(highCount) / n),
		AverageSentiment:   Round2(sentimentSum / n),
		TopDomains:         topDomains(domains),
	}
	if brand != "" {
		stats.BrandMentionRate = Round2(float64(brandCount) / n)
	}
	return stats
}

// topDomains orders by count descending then domain ascending
func topDomains(counts map[string]int) []model.DomainCount {
	if len(counts) == 0 {
		return nil
	}

	out := make([]model.DomainCount, 0, len(counts))
	for domain, count := range counts {
		out = append(out, model.DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Domain < out[j].Domain
	})

	if len(out) > maxTopDomains {
		out = out[:maxTopDomains]
	}
	return out
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
