// Package classify decides the provenance and authority of a citation.
//
// Classification runs an ordered list of stages and stops at the first stage
// that produces a source type. URL-derived signals (domain table, TLD table)
// always outrank text keywords.
package classify

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/citewatch/internal/model"
)

var officialWord = regexp.MustCompile(`(?i)\bofficial\b`)

// Classifier assigns a SourceType to a candidate citation
type Classifier struct {
	overrides map[string]model.SourceType
	stages    []stage
}

// input carries the signals available to each stage
type input struct {
	domain    string // empty when no URL or unparsable
	text      string // lower-cased
	brandSlug string // lower-cased alphanumerics of the brand
}

type stage struct {
	name string
	run  func(in input) (model.SourceType, bool)
}

// NewClassifier creates a classifier with optional domain overrides.
// Overrides take precedence over the built-in domain table; entries with an
// unknown source type are ignored (Config.Validate reports them).
func NewClassifier(config *model.AuthorityConfig) *Classifier {
	c := &Classifier{
		overrides: make(map[string]model.SourceType),
	}

	if config != nil {
		for domain, st := range config.DomainMap {
			parsed, ok := model.ParseSourceType(strings.ToLower(strings.TrimSpace(st)))
			if !ok {
				continue
			}
			c.overrides[normalizeHost(domain)] = parsed
		}
	}

	c.stages = []stage{
		{name: "domain", run: c.byDomain},
		{name: "tld", run: byTLD},
		{name: "official", run: byOfficial},
		{name: "blog-domain", run: byBlogDomain},
		{name: "text-keyword", run: byTextKeyword},
	}

	return c
}

// Classify classifies a citation from its URL (may be empty) and text
func (c *Classifier) Classify(rawURL, text string) model.SourceType {
	return c.ClassifyWithBrand(rawURL, text, "")
}

// ClassifyWithBrand classifies a citation, treating domains that contain the
// brand name as official sources
func (c *Classifier) ClassifyWithBrand(rawURL, text, brand string) model.SourceType {
	st, _ := c.explain(rawURL, text, brand)
	return st
}

// Explain returns the source type and the name of the stage that decided it
// ("default" when nothing matched)
func (c *Classifier) Explain(rawURL, text, brand string) (model.SourceType, string) {
	return c.explain(rawURL, text, brand)
}

func (c *Classifier) explain(rawURL, text, brand string) (model.SourceType, string) {
	in := input{
		text:      strings.ToLower(text),
		brandSlug: slug(brand),
	}
	if rawURL != "" {
		in.domain = ExtractDomain(rawURL)
	}

	for _, s := range c.stages {
		if st, ok := s.run(in); ok {
			return st, s.name
		}
	}
	return model.SourceUnknown, "default"
}

func (c *Classifier) byDomain(in input) (model.SourceType, bool) {
	if in.domain == "" {
		return "", false
	}
	if st, ok := lookupDomain(c.overrides, in.domain); ok {
		return st, true
	}
	return lookupDomain(knownDomains, in.domain)
}

func byTLD(in input) (model.SourceType, bool) {
	if in.domain == "" {
		return "", false
	}
	for _, rule := range tldRules {
		if strings.HasSuffix(in.domain, rule.suffix) {
			return rule.sourceType, true
		}
	}
	return "", false
}

func byOfficial(in input) (model.SourceType, bool) {
	if officialWord.MatchString(in.text) {
		return model.SourceOfficial, true
	}
	// Brand-owned domains count as official
	if in.domain != "" && len(in.brandSlug) >= 3 && strings.Contains(slug(in.domain), in.brandSlug) {
		return model.SourceOfficial, true
	}
	return "", false
}

func byBlogDomain(in input) (model.SourceType, bool) {
	if in.domain == "" {
		return "", false
	}
	for _, indicator := range blogIndicators {
		if strings.Contains(in.domain, indicator) {
			return model.SourceBlog, true
		}
	}
	return "", false
}

func byTextKeyword(in input) (model.SourceType, bool) {
	if in.text == "" {
		return "", false
	}
	for _, rule := range textKeywordRules {
		if rule.re.MatchString(in.text) {
			return rule.sourceType, true
		}
	}
	return "", false
}

// ExtractDomain returns the lower-cased host of a URL without port or "www."
// prefix. Unparsable or host-less URLs yield "".
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return normalizeHost(parsed.Hostname())
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

// slug keeps only lower-cased letters and digits
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
