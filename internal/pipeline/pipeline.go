// Package pipeline connects text sources to the citation engine, the history
// store and the renderers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/citewatch/internal/cache"
	"github.com/ppiankov/citewatch/internal/extract"
	"github.com/ppiankov/citewatch/internal/history"
	"github.com/ppiankov/citewatch/internal/llm"
	"github.com/ppiankov/citewatch/internal/model"
	"github.com/ppiankov/citewatch/internal/source"
)

// ErrLLMDisabled is returned by Ask when no provider is configured
var ErrLLMDisabled = errors.New("no LLM provider configured")

// Pipeline orchestrates acquisition, extraction and persistence
type Pipeline struct {
	extractor *extract.Extractor
	fetcher   *source.Fetcher
	cache     cache.Cache
	feeds     *source.FeedReader
	provider  llm.Provider   // nil if disabled
	history   *history.Store // nil unless snapshots are saved
	options   model.ExtractionOptions
	logger    *zap.Logger
}

// Tracked is the outcome of tracking one document
type Tracked struct {
	Document   *source.Document
	Result     *model.Result
	SnapshotID int64            // 0 when not saved
	Answer     *llm.AskResponse // Set when the text came from an LLM
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger attaches a logger to the pipeline and the components it builds
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProvider replaces the configured LLM provider
func WithProvider(provider llm.Provider) Option {
	return func(p *Pipeline) { p.provider = provider }
}

// WithHistory saves every result into store
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) { p.history = store }
}

// WithFetcher replaces the configured fetcher
func WithFetcher(fetcher *source.Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = fetcher }
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		options: cfg.Extraction,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.extractor = extract.NewExtractor(
		extract.WithLogger(p.logger),
		extract.WithAuthority(&cfg.Authority),
	)

	if p.fetcher == nil {
		p.cache = cache.New(cfg.Cache)
		p.fetcher = source.NewFetcher(cfg.HTTP,
			source.WithCache(p.cache, cfg.Cache.DiskTTL),
			source.WithLimiter(source.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
			source.WithLogger(p.logger),
		)
	}
	p.feeds = source.NewFeedReader(p.fetcher)

	if p.provider == nil && cfg.LLM.Provider != "" {
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			return nil, fmt.Errorf("init LLM provider: %w", err)
		}
		p.provider = provider
	}

	if p.history == nil && cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path, history.WithLogger(p.logger))
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		p.history = store
	}

	return p, nil
}

// Close releases the history store
func (p *Pipeline) Close() error {
	if reporter, ok := p.cache.(cache.StatsReporter); ok {
		stats := reporter.Stats()
		p.logger.Debug("Fetch cache",
			zap.Int64("memory_hits", stats.MemoryHits),
			zap.Int64("disk_hits", stats.DiskHits),
			zap.Int64("misses", stats.Misses),
		)
	}
	if p.history == nil {
		return nil
	}
	return p.history.Close()
}

// History returns the snapshot store, or nil when saving is off
func (p *Pipeline) History() *history.Store {
	return p.history
}

// Options returns the extraction options applied to every document
func (p *Pipeline) Options() model.ExtractionOptions {
	return p.options
}

// TrackDocument extracts citations from a document and saves the result
func (p *Pipeline) TrackDocument(ctx context.Context, doc *source.Document) (*Tracked, error) {
	return p.track(ctx, doc, p.options)
}

// TrackURL fetches a page and tracks its text
func (p *Pipeline) TrackURL(ctx context.Context, url string) (*Tracked, error) {
	doc, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return p.TrackDocument(ctx, doc)
}

// TrackFeed tracks every item of an RSS, Atom or JSON feed
func (p *Pipeline) TrackFeed(ctx context.Context, feedURL string) ([]*Tracked, error) {
	docs, err := p.feeds.Read(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	tracked := make([]*Tracked, 0, len(docs))
	for i := range docs {
		t, err := p.TrackDocument(ctx, &docs[i])
		if err != nil {
			return tracked, fmt.Errorf("track %s: %w", docs[i].Origin, err)
		}
		tracked = append(tracked, t)
	}

	p.logger.Info("Tracked feed", zap.String("url", feedURL), zap.Int("items", len(tracked)))
	return tracked, nil
}

// TrackTarget tracks a URL or a local file path
func (p *Pipeline) TrackTarget(ctx context.Context, target string) (*Tracked, error) {
	if IsURL(target) {
		return p.TrackURL(ctx, target)
	}
	doc, err := source.ReadFile(target, false)
	if err != nil {
		return nil, err
	}
	return p.TrackDocument(ctx, doc)
}

// Ask queries the LLM provider and tracks the citations in its answer.
// The request brand, when set, replaces the configured brand.
func (p *Pipeline) Ask(ctx context.Context, req llm.AskRequest) (*Tracked, error) {
	if p.provider == nil {
		return nil, ErrLLMDisabled
	}
	if req.Brand == "" {
		req.Brand = p.options.Brand
	}

	p.logger.Debug("Asking LLM", zap.String("provider", p.provider.Name()), zap.String("brand", req.Brand))

	answer, err := p.provider.Ask(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", p.provider.Name(), err)
	}

	origin := p.provider.Name()
	if answer.Model != "" {
		origin += ":" + answer.Model
	}
	doc := &source.Document{
		Origin: origin,
		Title:  strings.TrimSpace(firstLine(answer.Prompt)),
		Text:   answer.Answer,
	}

	options := p.options
	if req.Brand != "" {
		options.Brand = req.Brand
	}

	tracked, err := p.track(ctx, doc, options)
	if err != nil {
		return nil, err
	}
	tracked.Answer = answer
	return tracked, nil
}

func (p *Pipeline) track(ctx context.Context, doc *source.Document, options model.ExtractionOptions) (*Tracked, error) {
	result, err := p.extractor.Extract(doc.Text, extract.WithOptions(options))
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	tracked := &Tracked{Document: doc, Result: result}

	if p.history != nil {
		id, err := p.history.Save(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		tracked.SnapshotID = id
	}

	p.logger.Debug("Tracked document",
		zap.String("origin", doc.Origin),
		zap.Int("citations", result.Stats.Total),
		zap.Int("gaps", len(result.CitationGaps)),
		zap.Int64("snapshot", tracked.SnapshotID),
	)
	return tracked, nil
}

// IsURL reports whether a target should be fetched rather than read from disk
func IsURL(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
