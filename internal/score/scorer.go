package score

import (
	"context"
	"fmt"

	"github.com/ppiankov/ideascout/internal/embed"
	"github.com/ppiankov/ideascout/internal/model"
	"github.com/ppiankov/ideascout/internal/pricing"
)

// Archetype texts the scorer compares candidate fields against. These
// are fixed: with a deterministic embedding provider the scorer is a
// pure function of its input.
const (
	painArchetype = "an acute, expensive, recurring problem that costs hours of manual, " +
		"tedious, error-prone work every week and that people are actively paying to solve"

	icpArchetype = "a narrow, specific, well-defined professional audience that is easy to " +
		"identify and reach through established channels and communities"

	complexityArchetype = "a highly complex technical system requiring machine learning models, " +
		"real-time data pipelines, multi-system integration, regulatory compliance and " +
		"sophisticated infrastructure that takes a large team years to build"
)

// Qualitative similarity bands cited in rationale strings
const (
	bandMediumThreshold = 0.35
	bandHighThreshold   = 0.60
)

// Scorer computes the five-dimension score vector for one candidate
type Scorer struct {
	similarity *embed.Similarity
	neutralKD  int
}

// NewScorer creates a new scorer. neutralKD is the keyword difficulty
// assumed when no market data is available.
func NewScorer(similarity *embed.Similarity, neutralKD int) *Scorer {
	if neutralKD <= 0 || neutralKD > 100 {
		neutralKD = 50
	}
	return &Scorer{similarity: similarity, neutralKD: neutralKD}
}

// Score computes a ScoreVector for the candidate. Malformed text never
// causes an error; empty fields simply score low. The only error path
// is the embedding capability failing, which is fatal for a run.
func (s *Scorer) Score(ctx context.Context, candidate *model.IdeaCandidate) (*model.ScoreVector, error) {
	// One batched embedding call covers all text comparisons
	vectors, err := s.similarity.Vectors(ctx, []string{
		candidate.Pain, painArchetype,
		candidate.ICP, icpArchetype,
		candidate.Solution, complexityArchetype,
	})
	if err != nil {
		return nil, fmt.Errorf("score %q: %w", candidate.Title, err)
	}

	painSim := clamp01(embed.Cosine(vectors[0], vectors[1]))
	icpSim := clamp01(embed.Cosine(vectors[2], vectors[3]))
	complexitySim := clamp01(embed.Cosine(vectors[4], vectors[5]))

	vec := &model.ScoreVector{
		Demand:          s.scoreDemand(painSim),
		Acquisition:     s.scoreAcquisition(icpSim),
		MVPComplexity:   s.scoreMVPComplexity(complexitySim),
		Competition:     s.scoreCompetition(candidate.KeywordDifficulty),
		RevenueVelocity: s.scoreRevenueVelocity(candidate.RevenueModel),
	}

	vec.AddRationale(
		vec.Demand.Rationale,
		vec.Acquisition.Rationale,
		vec.MVPComplexity.Rationale,
		vec.Competition.Rationale,
		vec.RevenueVelocity.Rationale,
	)

	return vec, nil
}

// scoreDemand scales pain-archetype similarity to [0, 30]
func (s *Scorer) scoreDemand(sim float64) model.Dimension {
	return model.Dimension{
		Value:     sim * model.MaxDemand,
		Max:       model.MaxDemand,
		Rationale: fmt.Sprintf("demand: %s similarity to acute-pain archetype (%.2f)", band(sim), sim),
	}
}

// scoreAcquisition scales ICP-specificity similarity to [0, 20]
func (s *Scorer) scoreAcquisition(sim float64) model.Dimension {
	return model.Dimension{
		Value:     sim * model.MaxAcquisition,
		Max:       model.MaxAcquisition,
		Rationale: fmt.Sprintf("acquisition: %s similarity to narrow-reachable-audience archetype (%.2f)", band(sim), sim),
	}
}

// scoreMVPComplexity inverts complexity similarity: semantically simple
// solutions score high
func (s *Scorer) scoreMVPComplexity(sim float64) model.Dimension {
	return model.Dimension{
		Value:     (1 - sim) * model.MaxMVPComplexity,
		Max:       model.MaxMVPComplexity,
		Rationale: fmt.Sprintf("mvp_complexity: %s similarity to high-complexity archetype (%.2f), simpler scores higher", band(sim), sim),
	}
}

// scoreCompetition inverts keyword difficulty as a crowdedness proxy
func (s *Scorer) scoreCompetition(kd *int) model.Dimension {
	difficulty := s.neutralKD
	source := "no market data, neutral default"
	if kd != nil {
		difficulty = *kd
		if difficulty < 0 {
			difficulty = 0
		}
		if difficulty > 100 {
			difficulty = 100
		}
		source = "keyword difficulty"
	}

	return model.Dimension{
		Value:     (1 - float64(difficulty)/100) * model.MaxCompetition,
		Max:       model.MaxCompetition,
		Rationale: fmt.Sprintf("competition: %s %d/100, lower difficulty scores higher", source, difficulty),
	}
}

// scoreRevenueVelocity delegates to the pricing normalizer
func (s *Scorer) scoreRevenueVelocity(revenueModel string) model.Dimension {
	normalized := pricing.Parse(revenueModel)
	velocity := normalized.Velocity()

	return model.Dimension{
		Value:     velocity,
		Max:       model.MaxRevenueVelocity,
		Rationale: fmt.Sprintf("revenue_velocity: %s, velocity %.0f/10", normalized.Describe(), velocity),
	}
}

// band maps a similarity magnitude to the qualitative label cited in
// rationale strings
func band(sim float64) string {
	switch {
	case sim >= bandHighThreshold:
		return "high"
	case sim >= bandMediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
