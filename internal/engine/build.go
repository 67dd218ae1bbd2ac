package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/ideascout/internal/cache"
	"github.com/ppiankov/ideascout/internal/critic"
	"github.com/ppiankov/ideascout/internal/embed"
	"github.com/ppiankov/ideascout/internal/feedback"
	"github.com/ppiankov/ideascout/internal/gate"
	"github.com/ppiankov/ideascout/internal/model"
	"github.com/ppiankov/ideascout/internal/research"
	"github.com/ppiankov/ideascout/internal/score"
	"github.com/ppiankov/ideascout/internal/seo"
)

// NewFromConfig assembles a ready-to-run engine from configuration.
// The returned feedback store is shared with the engine so callers can
// add ratings after a run and persist them.
func NewFromConfig(ctx context.Context, cfg *model.Config) (*Engine, *feedback.Store, error) {
	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	provider, err := embed.NewProvider(embed.ConfigFromModel(cfg.Embedding))
	if err != nil {
		return nil, nil, fmt.Errorf("embedding provider: %w", err)
	}
	if !provider.IsAvailable(ctx) {
		return nil, nil, fmt.Errorf("embedding provider %q failed its availability check: %w",
			provider.Name(), embed.ErrUnavailable)
	}
	similarity := embed.NewSimilarity(provider, c)

	researcher, err := buildResearcher(cfg)
	if err != nil {
		return nil, nil, err
	}

	evidence := seo.NewHTTPProvider(seo.Config{
		BaseURL:    cfg.SEO.BaseURL,
		APIKey:     cfg.SEO.APIKey,
		Timeout:    time.Duration(cfg.SEO.Timeout) * time.Second,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}, c)

	store := feedback.Load(cfg.Feedback.Path)

	eng := New(Options{
		Researcher: researcher,
		Scorer:     score.NewScorer(similarity, cfg.Scoring.NeutralKeywordDifficulty),
		Critic:     critic.New(),
		Feedback:   store,
		Gate: gate.New(gate.Config{
			GreenTotal:        cfg.Gate.GreenTotal,
			YellowTotal:       cfg.Gate.YellowTotal,
			UpperBandFraction: cfg.Gate.UpperBandFraction,
			MinSearchVolume:   cfg.Gate.MinSearchVolume,
		}),
		Evidence:       evidence,
		Similarity:     similarity,
		MaxIterations:  cfg.Refine.MaxIterations,
		PruneFloor:     cfg.Refine.PruneFloor,
		MinCredibility: model.ParseCredibilityTier(cfg.Research.MinCredibility),
		Workers:        cfg.Concurrency.ScoringWorkers,
	})

	return eng, store, nil
}

// buildResearcher composes acquisition sources: configured web sources
// and dataset file if present, curated seed candidates otherwise
func buildResearcher(cfg *model.Config) (research.Researcher, error) {
	var sources research.Multi

	if len(cfg.Research.SourceURLs) > 0 {
		sources = append(sources, research.NewWebResearcher(research.WebConfig{
			SourceURLs:        cfg.Research.SourceURLs,
			Timeout:           cfg.HTTP.Timeout,
			UserAgent:         cfg.HTTP.UserAgent,
			MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
			RequestsPerSecond: cfg.RateLimiting.RequestsPerSecond,
			BurstSize:         cfg.RateLimiting.BurstSize,
			HTTPProxy:         cfg.HTTP.HTTPProxy,
			HTTPSProxy:        cfg.HTTP.HTTPSProxy,
			NoProxy:           cfg.HTTP.NoProxy,
			HighDomains:       cfg.Research.HighDomains,
			MediumDomains:     cfg.Research.MediumDomains,
			FilterByTheme:     true,
		}))
	}

	if cfg.Research.DatasetPath != "" {
		ds, err := research.NewDatasetResearcher(cfg.Research.DatasetPath)
		if err != nil {
			return nil, fmt.Errorf("load dataset: %w", err)
		}
		sources = append(sources, ds)
	}

	if len(sources) == 0 {
		sources = append(sources, research.NewStaticResearcher(research.SeedCandidates()))
	}

	return sources, nil
}
