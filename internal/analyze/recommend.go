package analyze

import (
	"fmt"

	"github.com/ppiankov/citewatch/internal/model"
)

const (
	// MaxRecommendations bounds the recommendation list
	MaxRecommendations = 5

	lowAuthorityRatio = 0.3
	lowBrandMention   = 0.2
)

// Recommend derives a prioritized list from gaps and stats.
// Order: critical/high gaps, then citation quality, then brand mentions.
func Recommend(bySourceType map[model.SourceType][]model.Citation, gaps []model.Gap, stats model.Stats, brand string) []model.Recommendation {
	recs := []model.Recommendation{}

	for _, gap := range gaps {
		var priority model.Priority
		switch gap.Importance {
		case model.ImportanceCritical:
			priority = model.PriorityHigh
		case model.ImportanceHigh:
			priority = model.PriorityMedium
		default:
			continue
		}
		recs = append(recs, model.Recommendation{
			Priority:    priority,
			Category:    "citation-gap",
			Title:       fmt.Sprintf("Build %s presence", displayName(gap.SourceType)),
			Description: gap.Description,
			Action:      gap.ActionItem,
			SourceType:  gap.SourceType,
		})
	}

	if stats.HighAuthorityRatio < lowAuthorityRatio {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityHigh,
			Category: "quality",
			Title:    "Improve Citation Quality",
			Description: fmt.Sprintf("Only %.0f%% of citations come from high-authority sources",
				stats.HighAuthorityRatio*100),
			Action: "Earn mentions from news outlets, academic publications and Wikipedia rather than blogs and social posts",
		})
	}

	if brand != "" && stats.BrandMentionRate < lowBrandMention {
		recs = append(recs, model.Recommendation{
			Priority: model.PriorityMedium,
			Category: "brand",
			Title:    "Increase Brand-Related Citations",
			Description: fmt.Sprintf("Only %.0f%% of citations mention %s in context",
				stats.BrandMentionRate*100, brand),
			Action: fmt.Sprintf("Make sure authoritative sources reference %s by name", brand),
		})
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func displayName(st model.SourceType) string {
	switch st {
	case model.SourceWikipedia:
		return "Wikipedia"
	case model.SourceNews:
		return "news"
	case model.SourceAcademic:
		return "academic"
	case model.SourceReviewSite:
		return "review site"
	default:
		return string(st)
	}
}
