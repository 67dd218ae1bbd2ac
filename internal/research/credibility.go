package research

import (
	"net/url"
	"strings"

	"github.com/ppiankov/ideascout/internal/model"
)

// CredibilityClassifier assigns a credibility tier to a source URL
// based on its domain. Mined candidates carry no publisher metadata,
// so the domain is the only signal available.
type CredibilityClassifier struct {
	highMap   map[string]bool
	mediumMap map[string]bool
}

// Domains treated as high or medium credibility when no explicit
// configuration overrides them. Established research and industry
// outlets rank high; aggregators and community sites rank medium.
var (
	defaultHighDomains = []string{
		"gartner.com",
		"forrester.com",
		"mckinsey.com",
		"statista.com",
		"crunchbase.com",
	}
	defaultMediumDomains = []string{
		"techcrunch.com",
		"producthunt.com",
		"news.ycombinator.com",
		"indiehackers.com",
		"reddit.com",
	}
)

// NewCredibilityClassifier creates a classifier. Passing nil slices
// uses the built-in domain lists.
func NewCredibilityClassifier(highDomains, mediumDomains []string) *CredibilityClassifier {
	if highDomains == nil {
		highDomains = defaultHighDomains
	}
	if mediumDomains == nil {
		mediumDomains = defaultMediumDomains
	}

	classifier := &CredibilityClassifier{
		highMap:   make(map[string]bool),
		mediumMap: make(map[string]bool),
	}
	for _, domain := range highDomains {
		classifier.highMap[strings.ToLower(domain)] = true
	}
	for _, domain := range mediumDomains {
		classifier.mediumMap[strings.ToLower(domain)] = true
	}
	return classifier
}

// Classify maps a URL to a credibility tier. Unparseable URLs and
// unrecognized domains are low, not unknown: a mined candidate always
// has a source, just not necessarily a reputable one.
func (c *CredibilityClassifier) Classify(rawURL string) model.CredibilityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.CredibilityLow
	}

	host := strings.ToLower(parsed.Host)
	if idx := strings.Index(host, ":"); idx > 0 {
		host = host[:idx]
	}
	host = strings.TrimPrefix(host, "www.")

	if matchesDomain(host, c.highMap) {
		return model.CredibilityHigh
	}

	// Government and academic hosts rank high without listing
	if strings.HasSuffix(host, ".gov") || strings.HasSuffix(host, ".edu") || strings.HasSuffix(host, ".ac.uk") {
		return model.CredibilityHigh
	}

	if matchesDomain(host, c.mediumMap) {
		return model.CredibilityMedium
	}

	return model.CredibilityLow
}

// matchesDomain reports whether host equals a listed domain or is a
// subdomain of one (e.g. blog.techcrunch.com matches techcrunch.com)
func matchesDomain(host string, domains map[string]bool) bool {
	if domains[host] {
		return true
	}
	for domain := range domains {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
