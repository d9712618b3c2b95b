package model

// Citation represents one discovered reference to an external source
type Citation struct {
	ID              string     `json:"id"`                         // Unique per creation, never reused
	URL             string     `json:"url,omitempty"`              // Normalized URL (URL citations only)
	Domain          string     `json:"domain,omitempty"`           // Lower-cased host without www.
	SourceType      SourceType `json:"source_type"`                // Provenance category
	Quality         Quality    `json:"quality"`                    // Authority tier
	Text            string     `json:"text"`                       // URL string or matched prose fragment
	Context         string     `json:"context"`                    // Bounded window around the match
	Position        int        `json:"position"`                   // Character offset in the analyzed text
	Confidence      float64    `json:"confidence"`                 // 0..1, certainty this is a real citation
	IsBrandRelated  bool       `json:"is_brand_related"`           // Brand mentioned in context
	Sentiment       float64    `json:"sentiment"`                  // -1..1 keyword heuristic
	Pattern         string     `json:"pattern,omitempty"`          // Which pattern produced the match
	DateReference   *string    `json:"date_reference,omitempty"`   // Year mentioned by a textual citation
	AuthorReference *string    `json:"author_reference,omitempty"` // Reserved
}

// HasURL reports whether the citation came from a URL match
func (c Citation) HasURL() bool {
	return c.URL != ""
}

// SourceType classifies where a citation comes from
type SourceType string

const (
	SourceWikipedia  SourceType = "wikipedia"
	SourceNews       SourceType = "news"
	SourceAcademic   SourceType = "academic"
	SourceBlog       SourceType = "blog"
	SourceOfficial   SourceType = "official"
	SourceReviewSite SourceType = "review-site"
	SourceSocial     SourceType = "social"
	SourceGovernment SourceType = "government"
	SourceDirectory  SourceType = "directory"
	SourceForum      SourceType = "forum"
	SourceUnknown    SourceType = "unknown"
)

// AllSourceTypes lists every source type in report order
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceWikipedia,
		SourceNews,
		SourceAcademic,
		SourceBlog,
		SourceOfficial,
		SourceReviewSite,
		SourceSocial,
		SourceGovernment,
		SourceDirectory,
		SourceForum,
		SourceUnknown,
	}
}

// ParseSourceType converts a string to a SourceType.
// The second return value is false for unrecognized input.
func ParseSourceType(s string) (SourceType, bool) {
	for _, st := range AllSourceTypes() {
		if string(st) == s {
			return st, true
		}
	}
	// Accept the underscore spelling used in env vars and YAML keys
	if s == "review_site" {
		return SourceReviewSite, true
	}
	return SourceUnknown, false
}

// Quality represents the authority tier of a citation
type Quality string

const (
	QualityHigh    Quality = "high"
	QualityMedium  Quality = "medium"
	QualityLow     Quality = "low"
	QualityUnknown Quality = "unknown"
)

// AllQualities lists every quality tier from best to worst
func AllQualities() []Quality {
	return []Quality{QualityHigh, QualityMedium, QualityLow, QualityUnknown}
}

// Weight returns the numeric value used for average quality
func (q Quality) Weight() float64 {
	switch q {
	case QualityHigh:
		return 1.0
	case QualityMedium:
		return 0.6
	case QualityLow:
		return 0.3
	default:
		return 0.5
	}
}
