package classify

import (
	"github.com/ppiankov/citewatch/internal/model"
)

// Assessor maps a source type and domain to a quality tier
type Assessor struct {
	premium map[string]bool
}

// NewAssessor creates an assessor using the built-in premium list plus any
// configured premium domains
func NewAssessor(config *model.AuthorityConfig) *Assessor {
	a := &Assessor{
		premium: make(map[string]bool, len(premiumDomains)),
	}
	for domain := range premiumDomains {
		a.premium[domain] = true
	}
	if config != nil {
		for _, domain := range config.PremiumDomains {
			if d := normalizeHost(domain); d != "" {
				a.premium[d] = true
			}
		}
	}
	return a
}

// Assess returns the quality tier for a citation.
// The premium override is checked before the low tier, so a flagship domain
// classified as blog or social still rates high.
func (a *Assessor) Assess(sourceType model.SourceType, domain string) model.Quality {
	switch sourceType {
	case model.SourceWikipedia, model.SourceAcademic, model.SourceGovernment, model.SourceNews:
		return model.QualityHigh
	case model.SourceOfficial, model.SourceReviewSite, model.SourceDirectory:
		return model.QualityMedium
	}

	if domain != "" && a.isPremium(domain) {
		return model.QualityHigh
	}

	switch sourceType {
	case model.SourceSocial, model.SourceForum, model.SourceBlog:
		return model.QualityLow
	default:
		return model.QualityUnknown
	}
}

func (a *Assessor) isPremium(domain string) bool {
	_, ok := lookupDomain(a.premium, domain)
	return ok
}
