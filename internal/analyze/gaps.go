// Package analyze derives gaps, statistics and recommendations from a set of
// classified citations.
package analyze

import (
	"fmt"

	"github.com/ppiankov/citewatch/internal/model"
)

// minNewsCitations is the news coverage below which a gap is reported
const minNewsCitations = 2

// gapCheck is one entry of the expected-source checklist
type gapCheck struct {
	sourceType  model.SourceType
	importance  model.Importance
	missing     func(count int) bool
	description func(count int) string
	action      func(brand string) string
}

var gapChecklist = []gapCheck{
	{
		sourceType:  model.SourceWikipedia,
		importance:  model.ImportanceCritical,
		missing:     func(count int) bool { return count == 0 },
		description: func(int) string { return "No Wikipedia citations found" },
		action: func(brand string) string {
			if brand != "" {
				return fmt.Sprintf("Create or improve the Wikipedia article for %s with well-sourced, neutral content", brand)
			}
			return "Create or improve a Wikipedia article with well-sourced, neutral content"
		},
	},
	{
		sourceType: model.SourceNews,
		importance: model.ImportanceHigh,
		missing:    func(count int) bool { return count < minNewsCitations },
		description: func(count int) string {
			return fmt.Sprintf("Limited news coverage (%d news citations)", count)
		},
		action: func(brand string) string {
			if brand != "" {
				return fmt.Sprintf("Pitch stories about %s to industry and mainstream news outlets", brand)
			}
			return "Pitch stories to industry and mainstream news outlets"
		},
	},
	{
		sourceType:  model.SourceAcademic,
		importance:  model.ImportanceMedium,
		missing:     func(count int) bool { return count == 0 },
		description: func(int) string { return "No academic or research citations found" },
		action: func(brand string) string {
			if brand != "" {
				return fmt.Sprintf("Publish research, whitepapers or case studies involving %s", brand)
			}
			return "Publish research, whitepapers or case studies"
		},
	},
	{
		sourceType:  model.SourceReviewSite,
		importance:  model.ImportanceHigh,
		missing:     func(count int) bool { return count == 0 },
		description: func(int) string { return "No review site citations found" },
		action: func(brand string) string {
			if brand != "" {
				return fmt.Sprintf("Encourage customers to review %s on G2, Capterra or Trustpilot", brand)
			}
			return "Encourage customers to leave reviews on G2, Capterra or Trustpilot"
		},
	},
}

// FindGaps checks the grouped citations against the expected-source checklist.
// Each check is independent; a missing bucket counts as empty.
func FindGaps(bySourceType map[model.SourceType][]model.Citation, brand string) []model.Gap {
	gaps := []model.Gap{}
	for _, check := range gapChecklist {
		count := len(bySourceType[check.sourceType])
		if !check.missing(count) {
			continue
		}
		gaps = append(gaps, model.Gap{
			SourceType:  check.sourceType,
			Importance:  check.importance,
			Description: check.description(count),
			ActionItem:  check.action(brand),
		})
	}
	return gaps
}
