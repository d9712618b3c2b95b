// Package extract discovers citations in free text and builds the tracking result.
package extract

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/citewatch/internal/analyze"
	"github.com/ppiankov/citewatch/internal/classify"
	"github.com/ppiankov/citewatch/internal/model"
)

// MaxRawMatches bounds the number of pattern matches examined per call
const MaxRawMatches = 10000

const urlConfidence = 0.9

var (
	ErrInvalidMinConfidence = errors.New("min confidence must be within [0, 1]")
	ErrInvalidMaxCitations  = errors.New("max citations must be positive")
)

// Extractor finds, classifies and scores citations. It is immutable after
// construction and safe for concurrent use.
type Extractor struct {
	classifier *classify.Classifier
	assessor   *classify.Assessor
	patterns   []Pattern
	logger     *zap.Logger
	now        func() time.Time
}

// ExtractorOption configures an Extractor at construction
type ExtractorOption func(*Extractor)

// WithLogger attaches a logger; the default discards everything
func WithLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithAuthority applies configured domain overrides and premium domains
func WithAuthority(config *model.AuthorityConfig) ExtractorOption {
	return func(e *Extractor) {
		e.classifier = classify.NewClassifier(config)
		e.assessor = classify.NewAssessor(config)
	}
}

// withClock is used by tests to pin AnalyzedAt
func withClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates a new citation extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		classifier: classify.NewClassifier(nil),
		assessor:   classify.NewAssessor(nil),
		patterns:   Patterns(),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option configures a single Extract call
type Option func(*model.ExtractionOptions)

// WithBrand sets the brand used for brand flags, gaps and recommendations
func WithBrand(brand string) Option {
	return func(o *model.ExtractionOptions) { o.Brand = brand }
}

// WithValidateURLs is accepted for compatibility; reachability is never checked
func WithValidateURLs(validate bool) Option {
	return func(o *model.ExtractionOptions) { o.ValidateURLs = validate }
}

// WithMinConfidence drops citations below the threshold
func WithMinConfidence(threshold float64) Option {
	return func(o *model.ExtractionOptions) { o.MinConfidence = threshold }
}

// WithMaxCitations caps the number of citations kept
func WithMaxCitations(limit int) Option {
	return func(o *model.ExtractionOptions) { o.MaxCitations = limit }
}

// WithContextWindow sets the characters kept on each side of a match
func WithContextWindow(window int) Option {
	return func(o *model.ExtractionOptions) { o.ContextWindow = window }
}

// WithOptions replaces all per-call options at once
func WithOptions(opts model.ExtractionOptions) Option {
	return func(o *model.ExtractionOptions) { *o = opts }
}

// scan holds the per-call state: input, offsets and both dedup sets
type scan struct {
	text      string
	runes     []rune
	runeIndex []int // byte offset -> rune offset; nil for ASCII input
	brand     string
	brandLow  string
	window    int
	seenURLs  map[string]bool
	seenTexts map[string]bool
	budget    int
}

func (s *scan) runeOffset(byteOffset int) int {
	if s.runeIndex == nil {
		return byteOffset
	}
	return s.runeIndex[byteOffset]
}

// Extract analyzes text and returns the citation tracking result.
// Malformed text never fails; only out-of-range options return an error.
func (e *Extractor) Extract(text string, opts ...Option) (*model.Result, error) {
	options := model.DefaultExtractionOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if options.MinConfidence < 0 || options.MinConfidence > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMinConfidence, options.MinConfidence)
	}
	if options.MaxCitations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxCitations, options.MaxCitations)
	}

	s := newScan(text, options.Brand)
	s.window = options.ContextWindow
	if s.window < 0 {
		s.window = DefaultContextWindow
	}

	citations := e.scanURLs(s, options.MinConfidence)
	citations = append(citations, e.scanProse(s, options.MinConfidence)...)

	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Confidence > citations[j].Confidence
	})
	if len(citations) > options.MaxCitations {
		citations = citations[:options.MaxCitations]
	}

	e.logger.Debug("Extraction complete",
		zap.Int("citations", len(citations)),
		zap.Int("raw_matches", MaxRawMatches-s.budget),
		zap.String("brand", options.Brand),
	)

	return e.buildResult(citations, options.Brand), nil
}

func newScan(text, brand string) *scan {
	s := &scan{
		text:      text,
		runes:     []rune(text),
		brand:     brand,
		brandLow:  strings.ToLower(brand),
		seenURLs:  make(map[string]bool),
		seenTexts: make(map[string]bool),
		budget:    MaxRawMatches,
	}
	if len(s.runes) != len(text) {
		s.runeIndex = make([]int, len(text)+1)
		r := 0
		for i := 0; i < len(text); {
			_, size := utf8.DecodeRuneInString(text[i:])
			for k := 0; k < size; k++ {
				s.runeIndex[i+k] = r
			}
			i += size
			r++
		}
		s.runeIndex[len(text)] = r
	}
	return s
}

// take returns how many more matches may be examined and warns when none are left
func (e *Extractor) take(s *scan, pattern string) int {
	if s.budget <= 0 {
		e.logger.Warn("Raw match limit reached, skipping pattern",
			zap.String("pattern", pattern),
			zap.Int("limit", MaxRawMatches),
		)
	}
	return s.budget
}

func (e *Extractor) scanURLs(s *scan, minConfidence float64) []model.Citation {
	limit := e.take(s, "url")
	if limit <= 0 {
		return nil
	}
	matches := urlPattern.FindAllStringIndex(s.text, limit)
	s.budget -= len(matches)

	var citations []model.Citation
	for _, m := range matches {
		normalized := NormalizeURL(s.text[m[0]:m[1]])
		if s.seenURLs[normalized] {
			continue
		}
		s.seenURLs[normalized] = true

		if urlConfidence < minConfidence {
			continue
		}

		domain := classify.ExtractDomain(normalized)
		sourceType := e.classifier.ClassifyWithBrand(normalized, normalized, s.brand)
		citations = append(citations, e.newCitation(s, citationInput{
			url:        normalized,
			domain:     domain,
			sourceType: sourceType,
			text:       normalized,
			position:   s.runeOffset(m[0]),
			confidence: urlConfidence,
			pattern:    "url",
		}))
	}
	return citations
}

func (e *Extractor) scanProse(s *scan, minConfidence float64) []model.Citation {
	var citations []model.Citation

	for _, p := range e.patterns {
		limit := e.take(s, p.Name)
		if limit <= 0 {
			break
		}
		matches := p.Re.FindAllStringSubmatchIndex(s.text, limit)
		s.budget -= len(matches)

		for _, m := range matches {
			if len(m) < 2*(p.Group+1) || m[2*p.Group] < 0 {
				continue
			}
			citationText := cleanCitationText(s.text[m[2*p.Group]:m[2*p.Group+1]])
			length := utf8.RuneCountInString(citationText)
			if length < 3 || length > 200 {
				continue
			}
			// URLs are handled by the URL scan
			if strings.Contains(citationText, "://") {
				continue
			}

			key := strings.ToLower(citationText)
			if s.seenTexts[key] {
				continue
			}
			s.seenTexts[key] = true

			sourceType := e.classifier.Classify("", citationText)
			confidence, year := textConfidence(citationText, length, sourceType)
			if confidence < minConfidence {
				continue
			}

			citation := e.newCitation(s, citationInput{
				sourceType: sourceType,
				text:       citationText,
				position:   s.runeOffset(m[0]),
				confidence: confidence,
				pattern:    p.Name,
			})
			if year != "" {
				citation.DateReference = &year
			}
			citations = append(citations, citation)
		}
	}

	return citations
}

// textConfidence is an additive score for prose citations, capped at 1
func textConfidence(text string, length int, sourceType model.SourceType) (float64, string) {
	confidence := 0.5
	if length > 20 {
		confidence += 0.1
	}
	year := yearPattern.FindString(text)
	if year != "" {
		confidence += 0.1
	}
	if sourceType != model.SourceUnknown {
		confidence += 0.2
	}
	if confidence > 1 {
		confidence = 1
	}
	return round2(confidence), year
}

type citationInput struct {
	url        string
	domain     string
	sourceType model.SourceType
	text       string
	position   int
	confidence float64
	pattern    string
}

func (e *Extractor) newCitation(s *scan, in citationInput) model.Citation {
	context := contextFromRunes(s.runes, in.position, s.window)
	return model.Citation{
		ID:             uuid.NewString(),
		URL:            in.url,
		Domain:         in.domain,
		SourceType:     in.sourceType,
		Quality:        e.assessor.Assess(in.sourceType, in.domain),
		Text:           in.text,
		Context:        context,
		Position:       in.position,
		Confidence:     in.confidence,
		IsBrandRelated: s.brandLow != "" && strings.Contains(strings.ToLower(context), s.brandLow),
		Sentiment:      Sentiment(context),
		Pattern:        in.pattern,
	}
}

// buildResult partitions the capped list and derives gaps, stats and recommendations
func (e *Extractor) buildResult(citations []model.Citation, brand string) *model.Result {
	if citations == nil {
		citations = []model.Citation{}
	}

	bySourceType := make(map[model.SourceType][]model.Citation, len(model.AllSourceTypes()))
	for _, st := range model.AllSourceTypes() {
		bySourceType[st] = []model.Citation{}
	}
	distribution := make(map[model.Quality]int, len(model.AllQualities()))
	for _, q := range model.AllQualities() {
		distribution[q] = 0
	}

	highAuthority := []model.Citation{}
	brandCitations := []model.Citation{}

	for _, c := range citations {
		bySourceType[c.SourceType] = append(bySourceType[c.SourceType], c)
		distribution[c.Quality]++
		if c.Quality == model.QualityHigh {
			highAuthority = append(highAuthority, c)
		}
		if c.IsBrandRelated {
			brandCitations = append(brandCitations, c)
		}
	}

	gaps := analyze.FindGaps(bySourceType, brand)
	stats := analyze.ComputeStats(citations, brand)

	return &model.Result{
		Brand:                  brand,
		Citations:              citations,
		BySourceType:           bySourceType,
		QualityDistribution:    distribution,
		HighAuthorityCitations: highAuthority,
		BrandCitations:         brandCitations,
		CitationGaps:           gaps,
		Stats:                  stats,
		Recommendations:        analyze.Recommend(bySourceType, gaps, stats, brand),
		AnalyzedAt:             e.now().UTC(),
	}
}
