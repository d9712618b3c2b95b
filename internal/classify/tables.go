package classify

import (
	"regexp"
	"strings"

	"github.com/ppiankov/citewatch/internal/model"
)

// knownDomains maps registrable domains to their source type.
// Subdomains inherit the mapping (en.wikipedia.org -> wikipedia.org).
var knownDomains = map[string]model.SourceType{
	// Encyclopedias
	"wikipedia.org": model.SourceWikipedia,
	"wikimedia.org": model.SourceWikipedia,
	"wikidata.org":  model.SourceWikipedia,

	// News
	"nytimes.com":         model.SourceNews,
	"washingtonpost.com":  model.SourceNews,
	"wsj.com":             model.SourceNews,
	"reuters.com":         model.SourceNews,
	"apnews.com":          model.SourceNews,
	"bbc.com":             model.SourceNews,
	"bbc.co.uk":           model.SourceNews,
	"cnn.com":             model.SourceNews,
	"theguardian.com":     model.SourceNews,
	"bloomberg.com":       model.SourceNews,
	"forbes.com":          model.SourceNews,
	"ft.com":              model.SourceNews,
	"economist.com":       model.SourceNews,
	"techcrunch.com":      model.SourceNews,
	"theverge.com":        model.SourceNews,
	"wired.com":           model.SourceNews,
	"cnbc.com":            model.SourceNews,
	"businessinsider.com": model.SourceNews,
	"npr.org":             model.SourceNews,
	"axios.com":           model.SourceNews,
	"usatoday.com":        model.SourceNews,
	"news.google.com":     model.SourceNews,

	// Academic
	"scholar.google.com":      model.SourceAcademic,
	"arxiv.org":               model.SourceAcademic,
	"pubmed.ncbi.nlm.nih.gov": model.SourceAcademic,
	"ncbi.nlm.nih.gov":        model.SourceAcademic,
	"jstor.org":               model.SourceAcademic,
	"researchgate.net":        model.SourceAcademic,
	"nature.com":              model.SourceAcademic,
	"science.org":             model.SourceAcademic,
	"sciencedirect.com":       model.SourceAcademic,
	"springer.com":            model.SourceAcademic,
	"ieee.org":                model.SourceAcademic,
	"acm.org":                 model.SourceAcademic,
	"doi.org":                 model.SourceAcademic,
	"semanticscholar.org":     model.SourceAcademic,
	"ssrn.com":                model.SourceAcademic,
	"plos.org":                model.SourceAcademic,

	// Review sites
	"g2.com":              model.SourceReviewSite,
	"capterra.com":        model.SourceReviewSite,
	"trustpilot.com":      model.SourceReviewSite,
	"yelp.com":            model.SourceReviewSite,
	"tripadvisor.com":     model.SourceReviewSite,
	"glassdoor.com":       model.SourceReviewSite,
	"consumerreports.org": model.SourceReviewSite,
	"trustradius.com":     model.SourceReviewSite,
	"getapp.com":          model.SourceReviewSite,
	"producthunt.com":     model.SourceReviewSite,

	// Social
	"twitter.com":   model.SourceSocial,
	"x.com":         model.SourceSocial,
	"facebook.com":  model.SourceSocial,
	"instagram.com": model.SourceSocial,
	"linkedin.com":  model.SourceSocial,
	"youtube.com":   model.SourceSocial,
	"tiktok.com":    model.SourceSocial,
	"pinterest.com": model.SourceSocial,
	"threads.net":   model.SourceSocial,

	// Forums
	"reddit.com":            model.SourceForum,
	"quora.com":             model.SourceForum,
	"stackoverflow.com":     model.SourceForum,
	"stackexchange.com":     model.SourceForum,
	"news.ycombinator.com":  model.SourceForum,
	"discussions.apple.com": model.SourceForum,

	// Blog platforms
	"medium.com":    model.SourceBlog,
	"substack.com":  model.SourceBlog,
	"wordpress.com": model.SourceBlog,
	"blogspot.com":  model.SourceBlog,
	"tumblr.com":    model.SourceBlog,
	"dev.to":        model.SourceBlog,
	"hashnode.dev":  model.SourceBlog,

	// Business directories
	"crunchbase.com":  model.SourceDirectory,
	"bbb.org":         model.SourceDirectory,
	"yellowpages.com": model.SourceDirectory,
	"zoominfo.com":    model.SourceDirectory,
	"dnb.com":         model.SourceDirectory,
	"manta.com":       model.SourceDirectory,
	"clutch.co":       model.SourceDirectory,
	"owler.com":       model.SourceDirectory,
}

type tldRule struct {
	suffix     string
	sourceType model.SourceType
}

// tldRules is ordered longest suffix first so ".gov.uk" wins over ".uk" style rules.
var tldRules = []tldRule{
	{".europa.eu", model.SourceGovernment},
	{".gouv.fr", model.SourceGovernment},
	{".gov.uk", model.SourceGovernment},
	{".gov.au", model.SourceGovernment},
	{".edu.au", model.SourceAcademic},
	{".gc.ca", model.SourceGovernment},
	{".ac.uk", model.SourceAcademic},
	{".ac.jp", model.SourceAcademic},
	{".gov", model.SourceGovernment},
	{".mil", model.SourceGovernment},
	{".edu", model.SourceAcademic},
}

// blogIndicators are substrings of a domain that suggest a blog
var blogIndicators = []string{
	"blog",
	"wordpress",
	"blogspot",
	"substack",
	"medium",
	"tumblr",
	"ghost.io",
}

type keywordRule struct {
	sourceType model.SourceType
	keywords   []string
	re         *regexp.Regexp // whole-word match of any keyword, optional plural
}

// textKeywordRules are evaluated in order; the first rule with a hit wins
var textKeywordRules = compileKeywordRules([]keywordRule{
	{sourceType: model.SourceWikipedia, keywords: []string{"wikipedia", "wiki"}},
	{sourceType: model.SourceAcademic, keywords: []string{"journal", "university", "study", "studies", "research", "professor", "academic", "et al", "institute", "proceedings", "ph.d", "phd"}},
	{sourceType: model.SourceReviewSite, keywords: []string{"review", "rating", "g2", "capterra", "trustpilot", "yelp"}},
	{sourceType: model.SourceNews, keywords: []string{"news", "newspaper", "new york times", "financial times", "reuters", "bloomberg", "associated press", "reported", "gazette", "tribune", "herald", "washington post", "huffington post", "magazine"}},
	{sourceType: model.SourceBlog, keywords: []string{"blog", "medium", "substack", "newsletter"}},
})

func compileKeywordRules(rules []keywordRule) []keywordRule {
	for i := range rules {
		quoted := make([]string, len(rules[i].keywords))
		for j, kw := range rules[i].keywords {
			quoted[j] = regexp.QuoteMeta(kw)
		}
		rules[i].re = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)s?\b`)
	}
	return rules
}

// premiumDomains promote quality to high regardless of type
var premiumDomains = map[string]bool{
	"nytimes.com":        true,
	"wsj.com":            true,
	"reuters.com":        true,
	"apnews.com":         true,
	"bloomberg.com":      true,
	"ft.com":             true,
	"economist.com":      true,
	"washingtonpost.com": true,
	"bbc.com":            true,
	"theguardian.com":    true,
	"forbes.com":         true,
	"techcrunch.com":     true,
	"hbr.org":            true,
	"nature.com":         true,
	"science.org":        true,
	"gartner.com":        true,
	"forrester.com":      true,
	"mckinsey.com":       true,
}

// KnownDomainType returns the built-in source type for a domain
func KnownDomainType(domain string) (model.SourceType, bool) {
	st, ok := lookupDomain(knownDomains, domain)
	return st, ok
}

// IsPremiumDomain reports whether a domain is on the built-in premium list
func IsPremiumDomain(domain string) bool {
	_, ok := lookupDomain(premiumDomains, domain)
	return ok
}

// lookupDomain walks from the full host to its parents, returning the most specific hit
func lookupDomain[V any](table map[string]V, domain string) (V, bool) {
	var zero V
	for d := domain; d != ""; d = parentDomain(d) {
		if v, ok := table[d]; ok {
			return v, true
		}
	}
	return zero, false
}

// parentDomain strips the leftmost label ("a.b.c" -> "b.c"); single labels return ""
func parentDomain(domain string) string {
	for i := 0; i < len(domain); i++ {
		if domain[i] == '.' {
			return domain[i+1:]
		}
	}
	return ""
}
