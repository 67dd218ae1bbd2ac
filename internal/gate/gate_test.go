package gate

import (
	"strings"
	"testing"

	"github.com/ppiankov/ideascout/internal/model"
)

func intPtr(v int) *int { return &v }

// strongVector clears the green bar: total 80, demand 26/30,
// acquisition 17/20
func strongVector() *model.ScoreVector {
	return &model.ScoreVector{
		Demand:          model.Dimension{Value: 26, Max: model.MaxDemand},
		Acquisition:     model.Dimension{Value: 17, Max: model.MaxAcquisition},
		MVPComplexity:   model.Dimension{Value: 15, Max: model.MaxMVPComplexity},
		Competition:     model.Dimension{Value: 14, Max: model.MaxCompetition},
		RevenueVelocity: model.Dimension{Value: 8, Max: model.MaxRevenueVelocity},
	}
}

func TestGate_GreenRequiresExternalEvidence(t *testing.T) {
	g := New(DefaultConfig())

	// Strong scores, no market data at all
	noEvidence := &model.IdeaCandidate{Title: "strong but unproven"}
	scores := strongVector()
	if rec := g.Decide(noEvidence, scores); rec != model.RecommendationYellowValidate {
		t.Errorf("without evidence expected yellow_validate, got %s", rec)
	}

	downgraded := false
	for _, line := range scores.Rationale {
		if strings.Contains(line, "downgraded") && strings.Contains(line, "no external evidence") {
			downgraded = true
		}
	}
	if !downgraded {
		t.Errorf("downgrade must be explained in rationale: %v", scores.Rationale)
	}
}

func TestGate_GreenWithSearchVolume(t *testing.T) {
	g := New(DefaultConfig())
	candidate := &model.IdeaCandidate{
		Title:        "proven demand",
		SearchVolume: intPtr(5400),
	}
	scores := strongVector()
	if rec := g.Decide(candidate, scores); rec != model.RecommendationGreenBuild {
		t.Errorf("expected green_build, got %s", rec)
	}

	cited := false
	for _, line := range scores.Rationale {
		if strings.Contains(line, "search volume 5400") {
			cited = true
		}
	}
	if !cited {
		t.Errorf("evidence should be cited in rationale: %v", scores.Rationale)
	}
}

func TestGate_GreenWithRisingTrend(t *testing.T) {
	g := New(DefaultConfig())
	candidate := &model.IdeaCandidate{
		Title:       "trending up",
		TrendStatus: model.TrendRising,
	}
	if rec := g.Decide(candidate, strongVector()); rec != model.RecommendationGreenBuild {
		t.Errorf("rising trend should satisfy the evidence bar, got %s", rec)
	}
}

func TestGate_VolumeAtThresholdIsNotEnough(t *testing.T) {
	g := New(DefaultConfig())
	candidate := &model.IdeaCandidate{
		Title:        "exactly at threshold",
		SearchVolume: intPtr(1000), // bar is strictly greater than
	}
	if rec := g.Decide(candidate, strongVector()); rec != model.RecommendationYellowValidate {
		t.Errorf("volume equal to threshold should not pass, got %s", rec)
	}
}

func TestGate_HighTotalWeakDemandIsNotGreen(t *testing.T) {
	g := New(DefaultConfig())
	candidate := &model.IdeaCandidate{
		Title:        "lopsided",
		SearchVolume: intPtr(9000),
		TrendStatus:  model.TrendRising,
	}

	// Total 77 but demand 20/30 misses the 24-point upper band
	scores := &model.ScoreVector{
		Demand:          model.Dimension{Value: 20, Max: model.MaxDemand},
		Acquisition:     model.Dimension{Value: 19, Max: model.MaxAcquisition},
		MVPComplexity:   model.Dimension{Value: 19, Max: model.MaxMVPComplexity},
		Competition:     model.Dimension{Value: 10, Max: model.MaxCompetition},
		RevenueVelocity: model.Dimension{Value: 9, Max: model.MaxRevenueVelocity},
	}
	if rec := g.Decide(candidate, scores); rec != model.RecommendationYellowValidate {
		t.Errorf("weak demand should block green_build even with evidence, got %s", rec)
	}
}

func TestGate_AdjustmentsCanDropTier(t *testing.T) {
	g := New(DefaultConfig())
	candidate := &model.IdeaCandidate{Title: "penalized"}

	// Raw total 68 would be yellow; a -5 critic adjustment lands at 63
	scores := &model.ScoreVector{
		Demand:           model.Dimension{Value: 22, Max: model.MaxDemand},
		Acquisition:      model.Dimension{Value: 14, Max: model.MaxAcquisition},
		MVPComplexity:    model.Dimension{Value: 14, Max: model.MaxMVPComplexity},
		Competition:      model.Dimension{Value: 12, Max: model.MaxCompetition},
		RevenueVelocity:  model.Dimension{Value: 6, Max: model.MaxRevenueVelocity},
		CriticAdjustment: -5,
	}
	if rec := g.Decide(candidate, scores); rec != model.RecommendationRedKill {
		t.Errorf("adjusted total 63 should be red_kill, got %s", rec)
	}
}

func TestGate_RedKill(t *testing.T) {
	g := New(DefaultConfig())
	scores := &model.ScoreVector{
		Demand:          model.Dimension{Value: 10, Max: model.MaxDemand},
		Acquisition:     model.Dimension{Value: 8, Max: model.MaxAcquisition},
		MVPComplexity:   model.Dimension{Value: 10, Max: model.MaxMVPComplexity},
		Competition:     model.Dimension{Value: 8, Max: model.MaxCompetition},
		RevenueVelocity: model.Dimension{Value: 4, Max: model.MaxRevenueVelocity},
	}
	if rec := g.Decide(&model.IdeaCandidate{Title: "weak"}, scores); rec != model.RecommendationRedKill {
		t.Errorf("total 40 should be red_kill, got %s", rec)
	}
	if len(scores.Rationale) == 0 {
		t.Error("red_kill must still carry a gate rationale")
	}
}

func TestGate_ZeroConfigUsesDefaults(t *testing.T) {
	g := New(Config{})
	candidate := &model.IdeaCandidate{Title: "defaults", SearchVolume: intPtr(2000)}
	if rec := g.Decide(candidate, strongVector()); rec != model.RecommendationGreenBuild {
		t.Errorf("zero config should fall back to defaults, got %s", rec)
	}
}
