package model

import (
	"strings"
	"time"
)

// IdeaCandidate represents one micro-SaaS opportunity under evaluation
type IdeaCandidate struct {
	Title        string   `json:"title" yaml:"title"`
	ICP          string   `json:"icp" yaml:"icp"` // ideal customer profile
	Pain         string   `json:"pain" yaml:"pain"`
	Solution     string   `json:"solution" yaml:"solution"`
	RevenueModel string   `json:"revenue_model" yaml:"revenue_model"`
	KeyRisks     []string `json:"key_risks,omitempty" yaml:"key_risks"`

	SourceCredibility CredibilityTier `json:"source_credibility" yaml:"source_credibility"`
	SourceDate        *time.Time      `json:"source_date,omitempty" yaml:"source_date"` // nil = unknown
	SourceURLs        []string        `json:"source_urls,omitempty" yaml:"source_urls"` // audit trail

	SearchVolume      *int        `json:"search_volume,omitempty" yaml:"search_volume"`
	KeywordDifficulty *int        `json:"keyword_difficulty,omitempty" yaml:"keyword_difficulty"` // 0-100
	TrendStatus       TrendStatus `json:"trend_status" yaml:"trend_status"`
}

// NormalizedTitle is the stable identity used for deduplication and
// feedback lookup across a run. Two candidates with equal normalized
// titles are the same idea.
func (c *IdeaCandidate) NormalizedTitle() string {
	return NormalizeTitle(c.Title)
}

// FingerprintText is the text a semantic fingerprint is derived from,
// used for novelty detection and score caching.
func (c *IdeaCandidate) FingerprintText() string {
	return strings.TrimSpace(strings.ToLower(c.Pain + " " + c.Solution))
}

// NormalizeTitle lowercases and collapses whitespace in a title
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// CredibilityTier represents the coarse trust classification of an
// idea's originating source
type CredibilityTier int

const (
	CredibilityUnknown CredibilityTier = 0
	CredibilityHigh    CredibilityTier = 1
	CredibilityMedium  CredibilityTier = 2
	CredibilityLow     CredibilityTier = 3
)

func (t CredibilityTier) String() string {
	switch t {
	case CredibilityHigh:
		return "high"
	case CredibilityMedium:
		return "medium"
	case CredibilityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseCredibilityTier converts a tier label to a CredibilityTier
func ParseCredibilityTier(label string) CredibilityTier {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high", "1":
		return CredibilityHigh
	case "medium", "2":
		return CredibilityMedium
	case "low", "3":
		return CredibilityLow
	default:
		return CredibilityUnknown
	}
}

// TrendStatus classifies the search-interest trajectory for a keyword
type TrendStatus string

const (
	TrendRising  TrendStatus = "rising"
	TrendStable  TrendStatus = "stable"
	TrendFalling TrendStatus = "falling"
	TrendUnknown TrendStatus = "unknown"
)

// ParseTrendStatus converts a trend label to a TrendStatus
func ParseTrendStatus(label string) TrendStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "rising", "upward", "up":
		return TrendRising
	case "stable", "flat":
		return TrendStable
	case "falling", "downward", "down":
		return TrendFalling
	default:
		return TrendUnknown
	}
}

// Recommendation is the final tier assigned to a scored idea
type Recommendation string

const (
	RecommendationGreenBuild     Recommendation = "green_build"
	RecommendationYellowValidate Recommendation = "yellow_validate"
	RecommendationRedKill        Recommendation = "red_kill"
)

// Evidence holds externally fetched market metrics for a keyword
type Evidence struct {
	SearchVolume      *int        `json:"search_volume,omitempty"`
	KeywordDifficulty *int        `json:"keyword_difficulty,omitempty"`
	Trend             TrendStatus `json:"trend"`
	Source            string      `json:"source"` // "api" or "simulated"
}

// Simulated reports whether the metrics came from the deterministic
// fallback rather than a real provider
func (e Evidence) Simulated() bool {
	return e.Source != "api"
}
