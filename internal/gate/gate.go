package gate

import (
	"fmt"

	"github.com/ppiankov/ideascout/internal/model"
)

// Config holds the gate thresholds
type Config struct {
	// GreenTotal is the minimum adjusted total for green_build
	GreenTotal float64

	// YellowTotal is the minimum adjusted total for yellow_validate
	YellowTotal float64

	// UpperBandFraction is the share of a dimension's budget that
	// demand and acquisition must each reach for green_build
	UpperBandFraction float64

	// MinSearchVolume is the external-evidence bar on search volume
	MinSearchVolume int
}

// DefaultConfig returns the standard thresholds
func DefaultConfig() Config {
	return Config{
		GreenTotal:        75,
		YellowTotal:       65,
		UpperBandFraction: 0.8,
		MinSearchVolume:   1000,
	}
}

// Gate decides the final recommendation tier. The top tier requires
// independent external market evidence: internal confidence alone
// never produces green_build.
type Gate struct {
	config Config
}

// New creates a gate with the given configuration
func New(config Config) *Gate {
	if config.GreenTotal == 0 && config.YellowTotal == 0 {
		config = DefaultConfig()
	}
	return &Gate{config: config}
}

// Decide evaluates the decision rules in order, first match wins, and
// appends the gate rationale to the score vector. The rationale states
// explicitly whether the downgrade-for-missing-evidence rule fired.
func (g *Gate) Decide(candidate *model.IdeaCandidate, scores *model.ScoreVector) model.Recommendation {
	total := scores.AdjustedTotal()

	demandBar := scores.Demand.Max * g.config.UpperBandFraction
	acquisitionBar := scores.Acquisition.Max * g.config.UpperBandFraction
	internalBar := total >= g.config.GreenTotal &&
		scores.Demand.Value >= demandBar &&
		scores.Acquisition.Value >= acquisitionBar

	if internalBar {
		if evidence, ok := g.externalSignal(candidate); ok {
			scores.AddRationale(fmt.Sprintf("gate: green_build, total %.1f with %s", total, evidence))
			return model.RecommendationGreenBuild
		}
		scores.AddRationale(fmt.Sprintf(
			"gate: downgraded to yellow_validate, total %.1f meets the green bar but no external evidence (search volume <= %d and trend not rising)",
			total, g.config.MinSearchVolume))
		return model.RecommendationYellowValidate
	}

	if total >= g.config.YellowTotal {
		scores.AddRationale(fmt.Sprintf("gate: yellow_validate, total %.1f >= %.0f", total, g.config.YellowTotal))
		return model.RecommendationYellowValidate
	}

	scores.AddRationale(fmt.Sprintf("gate: red_kill, total %.1f below %.0f", total, g.config.YellowTotal))
	return model.RecommendationRedKill
}

// externalSignal reports whether at least one external evidence signal
// holds, and describes the one that did
func (g *Gate) externalSignal(candidate *model.IdeaCandidate) (string, bool) {
	if candidate.SearchVolume != nil && *candidate.SearchVolume > g.config.MinSearchVolume {
		return fmt.Sprintf("search volume %d > %d", *candidate.SearchVolume, g.config.MinSearchVolume), true
	}
	if candidate.TrendStatus == model.TrendRising {
		return "rising trend", true
	}
	return "", false
}
