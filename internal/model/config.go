package model

import (
	"fmt"
	"time"
)

// Config is the complete citewatch configuration
type Config struct {
	Extraction   ExtractionOptions  `yaml:"extraction" mapstructure:"extraction"`
	Authority    AuthorityConfig    `yaml:"authority" mapstructure:"authority"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	History      HistoryConfig      `yaml:"history" mapstructure:"history"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// ExtractionOptions controls a single extraction run
type ExtractionOptions struct {
	Brand         string  `yaml:"brand" mapstructure:"brand"`
	ValidateURLs  bool    `yaml:"validate_urls" mapstructure:"validate_urls"` // Accepted, not acted on by the engine
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	MaxCitations  int     `yaml:"max_citations" mapstructure:"max_citations"`
	ContextWindow int     `yaml:"context_window" mapstructure:"context_window"` // Characters each side of a match
}

// AuthorityConfig overrides the built-in classification tables
type AuthorityConfig struct {
	DomainMap      map[string]string `yaml:"domain_map" mapstructure:"domain_map"`           // domain -> source type
	PremiumDomains []string          `yaml:"premium_domains" mapstructure:"premium_domains"` // Promote quality to high
}

// HTTPConfig configures page and feed fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig configures the fetch cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HistoryConfig configures the snapshot store
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"` // Save every result
	Path    string `yaml:"path" mapstructure:"path"`       // SQLite database file
}

// ConcurrencyConfig configures batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig configures per-domain fetch rate limits
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LLMConfig configures the AI answer source
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama, "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	MaxRows       int  `yaml:"max_rows" mapstructure:"max_rows"` // Citation rows in Markdown
}

// LoggingConfig configures structured logging
type LoggingConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Development bool   `yaml:"development" mapstructure:"development"`
}

// DefaultExtractionOptions returns the engine defaults
func DefaultExtractionOptions() ExtractionOptions {
	return ExtractionOptions{
		MinConfidence: 0.3,
		MaxCitations:  50,
		ContextWindow: 150,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Extraction: DefaultExtractionOptions(),
		Authority: AuthorityConfig{
			DomainMap:      map[string]string{},
			PremiumDomains: []string{},
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "citewatch/0.1 (+https://github.com/ppiankov/citewatch)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".citewatch/cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    ".citewatch/history.db",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   60,
			MaxTokens: 1500,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			MaxRows:       50,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Validate checks configuration ranges
func (c *Config) Validate() error {
	if c.Extraction.MinConfidence < 0 || c.Extraction.MinConfidence > 1 {
		return fmt.Errorf("extraction.min_confidence must be within [0,1], got %v", c.Extraction.MinConfidence)
	}
	if c.Extraction.MaxCitations <= 0 {
		return fmt.Errorf("extraction.max_citations must be positive, got %d", c.Extraction.MaxCitations)
	}
	if c.Extraction.ContextWindow < 0 {
		return fmt.Errorf("extraction.context_window must not be negative, got %d", c.Extraction.ContextWindow)
	}
	for domain, st := range c.Authority.DomainMap {
		if _, ok := ParseSourceType(st); !ok {
			return fmt.Errorf("authority.domain_map[%s]: unknown source type %q", domain, st)
		}
	}
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("concurrency.workers must be positive, got %d", c.Concurrency.Workers)
	}
	if c.RateLimiting.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limiting.requests_per_second must be positive, got %v", c.RateLimiting.RequestsPerSecond)
	}
	return nil
}
