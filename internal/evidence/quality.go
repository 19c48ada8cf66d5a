package evidence

import (
	"strings"

	"github.com/skillmapio/skillmap/pkg/models"
)

// credibleDomains is the allow list of hosts treated as credible sources.
// Matching is by substring against the resolved domain.
var credibleDomains = []string{
	"github.com",
	"arxiv.org",
	"medium.com",
	"dev.to",
	"stackoverflow.com",
	"youtube.com",
}

// crediblePrefixes marks documentation/blog/news/tech hosts as credible.
var crediblePrefixes = []string{"docs.", "documentation.", "blog.", "news.", "tech."}

// platformDomains are the social platform's own hosts. Self-hosted evidence
// gets a small credit, less than an external credible source.
var platformDomains = map[string]bool{
	"x.com":       true,
	"twitter.com": true,
}

// Quality component weights.
const (
	longTitleBonus      = 0.2 // title length stands in for engagement depth
	midTitleBonus       = 0.1
	credibleDomainBonus = 0.3
	platformDomainBonus = 0.1
	otherDomainBonus    = 0.15
	authorPoolBonus3    = 0.2
	authorPoolBonus2    = 0.1
	domainPoolBonus     = 0.1
)

// rateQuality assigns the per-item quality score in place. The author- and
// domain-pool components depend on the whole evidence list, so quality is
// rated after the list is final.
func rateQuality(items []models.SkillEvidence) {
	authors := make(map[string]bool)
	domains := make(map[string]bool)
	for _, item := range items {
		if item.Author != "" {
			authors[item.Author] = true
		}
		if item.Domain != "" {
			domains[item.Domain] = true
		}
	}

	var poolBonus float64
	switch {
	case len(authors) >= 3:
		poolBonus += authorPoolBonus3
	case len(authors) >= 2:
		poolBonus += authorPoolBonus2
	}
	if len(domains) >= 3 {
		poolBonus += domainPoolBonus
	}

	for i := range items {
		q := titleComponent(items[i].Title) + domainComponent(items[i].Domain) + poolBonus
		if q > 1 {
			q = 1
		}
		items[i].Quality = q
	}
}

func titleComponent(title string) float64 {
	switch {
	case len(title) > 100:
		return longTitleBonus
	case len(title) > 50:
		return midTitleBonus
	default:
		return 0
	}
}

func domainComponent(domain string) float64 {
	if domain == "" {
		return 0
	}
	if platformDomains[domain] {
		return platformDomainBonus
	}
	for _, cd := range credibleDomains {
		if strings.Contains(domain, cd) {
			return credibleDomainBonus
		}
	}
	for _, prefix := range crediblePrefixes {
		if strings.HasPrefix(domain, prefix) {
			return credibleDomainBonus
		}
	}
	return otherDomainBonus
}
