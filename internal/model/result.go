package model

import "time"

// Result is the immutable snapshot produced by one extraction run
type Result struct {
	Brand                  string                    `json:"brand,omitempty"`
	Citations              []Citation                `json:"citations"`                // Descending confidence, capped
	BySourceType           map[SourceType][]Citation `json:"by_source_type"`           // All buckets present
	QualityDistribution    map[Quality]int           `json:"quality_distribution"`     // Sums to len(Citations)
	HighAuthorityCitations []Citation                `json:"high_authority_citations"` // Quality == high
	BrandCitations         []Citation                `json:"brand_citations"`          // IsBrandRelated
	CitationGaps           []Gap                     `json:"citation_gaps"`
	Stats                  Stats                     `json:"stats"`
	Recommendations        []Recommendation          `json:"recommendations"`
	AnalyzedAt             time.Time                 `json:"analyzed_at"`
}

// Stats holds aggregate citation metrics
type Stats struct {
	Total              int           `json:"total"`
	AverageQuality     float64       `json:"average_quality"`      // Mean tier weight, 2 decimals
	BrandMentionRate   float64       `json:"brand_mention_rate"`   // Brand citations / total
	UniqueDomains      int           `json:"unique_domains"`       // Distinct non-empty domains
	HighAuthorityRatio float64       `json:"high_authority_ratio"` // High quality / total
	AverageSentiment   float64       `json:"average_sentiment"`
	TopDomains         []DomainCount `json:"top_domains,omitempty"`
}

// DomainCount is a domain and the number of citations pointing at it
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// Gap is an expected but absent or under-represented authoritative source type
type Gap struct {
	SourceType  SourceType `json:"source_type"`
	Importance  Importance `json:"importance"`
	Description string     `json:"description"`
	ActionItem  string     `json:"action_item"`
}

// Importance ranks a gap
type Importance string

const (
	ImportanceCritical Importance = "critical"
	ImportanceHigh     Importance = "high"
	ImportanceMedium   Importance = "medium"
	ImportanceLow      Importance = "low"
)

// Recommendation is a prioritized action derived from gaps and stats
type Recommendation struct {
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Action      string     `json:"action,omitempty"`
	SourceType  SourceType `json:"source_type,omitempty"` // Set for gap-derived entries
}

// Priority orders recommendations
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Comparison is the diff between two results
type Comparison struct {
	NewCitations  []Citation `json:"new_citations"`
	LostCitations []Citation `json:"lost_citations"`
	CountChange   int        `json:"count_change"`
	QualityChange float64    `json:"quality_change"`
	PreviousStats Stats      `json:"previous_stats"`
	CurrentStats  Stats      `json:"current_stats"`
	Trend         Trend      `json:"trend"`
}

// Trend is the direction of citation count between two snapshots
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)
