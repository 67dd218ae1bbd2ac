package model

import "time"

// Config holds the complete ideascout configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Embedding    EmbeddingConfig    `yaml:"embedding"`
	SEO          SEOConfig          `yaml:"seo"`
	Research     ResearchConfig     `yaml:"research"`
	Scoring      ScoringConfig      `yaml:"scoring"`
	Gate         GateConfig         `yaml:"gate"`
	Refine       RefineConfig       `yaml:"refine"`
	Feedback     FeedbackConfig     `yaml:"feedback"`
	Cache        CacheConfig        `yaml:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting"`
	Output       OutputConfig       `yaml:"output"`
}

// HTTPConfig controls outbound HTTP behavior
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// EmbeddingConfig selects and configures the embedding provider
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "openai", "hash"
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Timeout  int    `yaml:"timeout"` // seconds
}

// SEOConfig configures the external keyword-metrics provider
type SEOConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout"` // seconds
}

// ResearchConfig configures candidate acquisition
type ResearchConfig struct {
	SourceURLs     []string `yaml:"source_urls"`
	DatasetPath    string   `yaml:"dataset_path"`
	MinCredibility string   `yaml:"min_credibility"` // high, medium, low

	// Domain lists overriding the built-in source credibility tiers
	HighDomains   []string `yaml:"high_domains"`
	MediumDomains []string `yaml:"medium_domains"`
}

// ScoringConfig holds scorer defaults
type ScoringConfig struct {
	// NeutralKeywordDifficulty is used when no difficulty data exists
	NeutralKeywordDifficulty int `yaml:"neutral_keyword_difficulty"`
}

// GateConfig holds the validation gate thresholds
type GateConfig struct {
	GreenTotal        float64 `yaml:"green_total"`
	YellowTotal       float64 `yaml:"yellow_total"`
	UpperBandFraction float64 `yaml:"upper_band_fraction"`
	MinSearchVolume   int     `yaml:"min_search_volume"`
}

// RefineConfig bounds the refinement loop
type RefineConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	PruneFloor    float64 `yaml:"prune_floor"` // red_kill ideas below this are discarded
}

// FeedbackConfig locates the persisted user ratings
type FeedbackConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig controls the layered embedding/metrics cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig sizes the scoring worker pool
type ConcurrencyConfig struct {
	ScoringWorkers int `yaml:"scoring_workers"`
}

// RateLimitingConfig throttles researcher fetches per domain
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
	TopN          int  `yaml:"top_n"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "ideascout/0.1 (+https://github.com/ppiankov/ideascout)",
			MaxBodyBytes: 2_000_000,
		},
		Embedding: EmbeddingConfig{
			Provider: "hash",
			Timeout:  30,
		},
		SEO: SEOConfig{
			Timeout: 10,
		},
		Research: ResearchConfig{
			MinCredibility: "low",
		},
		Scoring: ScoringConfig{
			NeutralKeywordDifficulty: 50,
		},
		Gate: GateConfig{
			GreenTotal:        75,
			YellowTotal:       65,
			UpperBandFraction: 0.8,
			MinSearchVolume:   1000,
		},
		Refine: RefineConfig{
			MaxIterations: 3,
			PruneFloor:    40,
		},
		Feedback: FeedbackConfig{
			Path: "data/user_feedback.json",
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			ScoringWorkers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			TopN:          10,
		},
	}
}
