package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/ideascout/internal/critic"
	"github.com/ppiankov/ideascout/internal/embed"
	"github.com/ppiankov/ideascout/internal/feedback"
	"github.com/ppiankov/ideascout/internal/gate"
	"github.com/ppiankov/ideascout/internal/model"
	"github.com/ppiankov/ideascout/internal/research"
)

func intPtr(v int) *int { return &v }

// stubScorer returns canned vectors keyed by normalized title, a
// fallback weak vector otherwise
type stubScorer struct {
	vectors map[string]model.ScoreVector
	calls   int
	err     error
}

func (s *stubScorer) Score(ctx context.Context, candidate *model.IdeaCandidate) (*model.ScoreVector, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	vec, ok := s.vectors[candidate.NormalizedTitle()]
	if !ok {
		vec = weakVector()
	}
	out := vec
	out.Rationale = append([]string(nil), vec.Rationale...)
	return &out, nil
}

// stubEvidence returns the same evidence for every keyword
type stubEvidence struct {
	evidence model.Evidence
}

func (s *stubEvidence) Fetch(ctx context.Context, keyword string) model.Evidence {
	return s.evidence
}

// variantResearcher yields one fresh candidate per query variant, so
// every iteration adds new material
type variantResearcher struct{}

func (variantResearcher) Fetch(ctx context.Context, theme, variant string) ([]model.IdeaCandidate, error) {
	return []model.IdeaCandidate{{
		Title:             "Idea for " + variant,
		Pain:              "pain behind " + variant,
		Solution:          "solution for " + variant,
		SourceCredibility: model.CredibilityMedium,
	}}, nil
}

func strongVector() model.ScoreVector {
	return model.ScoreVector{
		Demand:          model.Dimension{Value: 26, Max: model.MaxDemand},
		Acquisition:     model.Dimension{Value: 17, Max: model.MaxAcquisition},
		MVPComplexity:   model.Dimension{Value: 15, Max: model.MaxMVPComplexity},
		Competition:     model.Dimension{Value: 14, Max: model.MaxCompetition},
		RevenueVelocity: model.Dimension{Value: 8, Max: model.MaxRevenueVelocity},
	}
}

func weakVector() model.ScoreVector {
	return model.ScoreVector{
		Demand:          model.Dimension{Value: 8, Max: model.MaxDemand},
		Acquisition:     model.Dimension{Value: 5, Max: model.MaxAcquisition},
		MVPComplexity:   model.Dimension{Value: 6, Max: model.MaxMVPComplexity},
		Competition:     model.Dimension{Value: 5, Max: model.MaxCompetition},
		RevenueVelocity: model.Dimension{Value: 3, Max: model.MaxRevenueVelocity},
	}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Critic == nil {
		opts.Critic = critic.New()
	}
	if opts.Gate == nil {
		opts.Gate = gate.New(gate.DefaultConfig())
	}
	if opts.Similarity == nil {
		opts.Similarity = embed.NewSimilarity(embed.NewHashProvider(), nil)
	}
	if opts.Feedback == nil {
		opts.Feedback = feedback.Load(filepath.Join(t.TempDir(), "feedback.json"))
	}
	if opts.Workers == 0 {
		opts.Workers = 2
	}
	return New(opts)
}

func TestEngine_Run_GreenStopsEarly(t *testing.T) {
	candidate := model.IdeaCandidate{
		Title:             "Proven Winner",
		Pain:              "a real pain",
		Solution:          "a real solution",
		SourceCredibility: model.CredibilityMedium,
		SearchVolume:      intPtr(5400),
		KeywordDifficulty: intPtr(30),
		TrendStatus:       model.TrendRising,
	}

	eng := newTestEngine(t, Options{
		Researcher:    research.NewStaticResearcher([]model.IdeaCandidate{candidate}),
		Scorer:        &stubScorer{vectors: map[string]model.ScoreVector{"proven winner": strongVector()}},
		MaxIterations: 3,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Stopped != StopGreenFound {
		t.Errorf("stop reason = %s, want %s", result.Stopped, StopGreenFound)
	}
	if result.Iterations != 1 {
		t.Errorf("green on first pass should stop after 1 iteration, got %d", result.Iterations)
	}
	if result.GreenCount() != 1 {
		t.Errorf("green count = %d, want 1", result.GreenCount())
	}
}

func TestEngine_Run_NoNewCandidatesStops(t *testing.T) {
	candidate := model.IdeaCandidate{
		Title:             "Mediocre Idea",
		Pain:              "mild pain",
		Solution:          "partial solution",
		SourceCredibility: model.CredibilityMedium,
	}

	// Static researcher returns the same candidate every iteration,
	// so the second collecting pass adds nothing
	eng := newTestEngine(t, Options{
		Researcher:    research.NewStaticResearcher([]model.IdeaCandidate{candidate}),
		Scorer:        &stubScorer{},
		MaxIterations: 3,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Stopped != StopNoNewCandidates {
		t.Errorf("stop reason = %s, want %s", result.Stopped, StopNoNewCandidates)
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", result.Iterations)
	}
}

func TestEngine_Run_EmptyPoolIsValid(t *testing.T) {
	eng := newTestEngine(t, Options{
		Researcher:    research.NewStaticResearcher(nil),
		Scorer:        &stubScorer{},
		MaxIterations: 3,
	})

	result, err := eng.Run(context.Background(), "obscure theme")
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(result.Ideas) != 0 {
		t.Errorf("expected no ideas, got %d", len(result.Ideas))
	}
	if result.Stopped != StopNoNewCandidates {
		t.Errorf("stop reason = %s", result.Stopped)
	}
}

func TestEngine_Run_BudgetExhausted(t *testing.T) {
	eng := newTestEngine(t, Options{
		Researcher:    variantResearcher{},
		Scorer:        &stubScorer{},
		MaxIterations: 3,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Stopped != StopBudgetExhausted {
		t.Errorf("stop reason = %s, want %s", result.Stopped, StopBudgetExhausted)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", result.Iterations)
	}
}

func TestEngine_Run_ScoresEachCandidateOnce(t *testing.T) {
	candidates := []model.IdeaCandidate{
		{Title: "Idea A", Pain: "pain a", Solution: "solution a", SourceCredibility: model.CredibilityMedium},
		{Title: "Idea B", Pain: "pain b", Solution: "solution b", SourceCredibility: model.CredibilityMedium},
	}
	scorer := &stubScorer{}

	eng := newTestEngine(t, Options{
		Researcher:    research.NewStaticResearcher(candidates),
		Scorer:        scorer,
		MaxIterations: 3,
		PruneFloor:    0, // keep everything so the cache is what prevents rescoring
	})

	if _, err := eng.Run(context.Background(), "test theme"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if scorer.calls != 2 {
		t.Errorf("each unique candidate should be scored once, got %d calls", scorer.calls)
	}
}

func TestEngine_Run_StrongScoreWithoutEvidenceIsYellow(t *testing.T) {
	candidate := model.IdeaCandidate{
		Title:             "Confident But Unproven",
		Pain:              "a pain",
		Solution:          "a solution",
		SourceCredibility: model.CredibilityMedium,
	}

	// Simulated evidence: low volume, unknown trend
	volume := 300
	difficulty := 40
	eng := newTestEngine(t, Options{
		Researcher: research.NewStaticResearcher([]model.IdeaCandidate{candidate}),
		Scorer:     &stubScorer{vectors: map[string]model.ScoreVector{"confident but unproven": strongVector()}},
		Evidence: &stubEvidence{evidence: model.Evidence{
			SearchVolume:      &volume,
			KeywordDifficulty: &difficulty,
			Trend:             model.TrendUnknown,
			Source:            "simulated:api-fallback",
		}},
		MaxIterations: 1,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Ideas) != 1 {
		t.Fatalf("expected 1 idea, got %d", len(result.Ideas))
	}

	idea := result.Ideas[0]
	if idea.Recommendation != model.RecommendationYellowValidate {
		t.Errorf("recommendation = %s, want yellow_validate", idea.Recommendation)
	}
	downgraded := false
	for _, line := range idea.Scores.Rationale {
		if strings.Contains(line, "no external evidence") {
			downgraded = true
		}
	}
	if !downgraded {
		t.Errorf("downgrade should be explained: %v", idea.Scores.Rationale)
	}
}

func TestEngine_Run_FeedbackShiftsScore(t *testing.T) {
	store := feedback.Load(filepath.Join(t.TempDir(), "feedback.json"))
	store.Add("Mediocre Idea", 5)

	candidate := model.IdeaCandidate{
		Title:             "Mediocre Idea",
		Pain:              "mild pain",
		Solution:          "partial solution",
		SourceCredibility: model.CredibilityMedium,
	}

	eng := newTestEngine(t, Options{
		Researcher:    research.NewStaticResearcher([]model.IdeaCandidate{candidate}),
		Scorer:        &stubScorer{},
		Feedback:      store,
		MaxIterations: 1,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ideas[0].Scores.FeedbackAdjustment != 5 {
		t.Errorf("feedback adjustment = %v, want 5", result.Ideas[0].Scores.FeedbackAdjustment)
	}

	cited := false
	for _, line := range result.Ideas[0].Scores.Rationale {
		if strings.Contains(line, "user feedback") {
			cited = true
		}
	}
	if !cited {
		t.Errorf("feedback should be cited in rationale: %v", result.Ideas[0].Scores.Rationale)
	}
}

func TestEngine_Run_ZeroRatingDowngradesToKill(t *testing.T) {
	store := feedback.Load(filepath.Join(t.TempDir(), "feedback.json"))
	store.Add("Borderline Idea", 0)

	candidate := model.IdeaCandidate{
		Title:             "Borderline Idea",
		Pain:              "pain",
		Solution:          "solution",
		SourceCredibility: model.CredibilityMedium,
	}

	// Raw total 68: yellow on its own, killed by the -5 rating
	borderline := model.ScoreVector{
		Demand:          model.Dimension{Value: 24, Max: model.MaxDemand},
		Acquisition:     model.Dimension{Value: 16, Max: model.MaxAcquisition},
		MVPComplexity:   model.Dimension{Value: 12, Max: model.MaxMVPComplexity},
		Competition:     model.Dimension{Value: 10, Max: model.MaxCompetition},
		RevenueVelocity: model.Dimension{Value: 6, Max: model.MaxRevenueVelocity},
	}

	eng := newTestEngine(t, Options{
		Researcher:    research.NewStaticResearcher([]model.IdeaCandidate{candidate}),
		Scorer:        &stubScorer{vectors: map[string]model.ScoreVector{"borderline idea": borderline}},
		Feedback:      store,
		MaxIterations: 1,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	idea := result.Ideas[0]
	if idea.Scores.FeedbackAdjustment != -5 {
		t.Errorf("feedback adjustment = %v, want -5", idea.Scores.FeedbackAdjustment)
	}
	if got := idea.Scores.AdjustedTotal(); got != 63 {
		t.Errorf("adjusted total = %v, want 63", got)
	}
	if idea.Recommendation != model.RecommendationRedKill {
		t.Errorf("recommendation = %s, want red_kill", idea.Recommendation)
	}
}

func TestEngine_Run_EmbeddingFailureIsFatal(t *testing.T) {
	candidate := model.IdeaCandidate{
		Title:             "Any Idea",
		Pain:              "pain",
		Solution:          "solution",
		SourceCredibility: model.CredibilityMedium,
	}

	eng := newTestEngine(t, Options{
		Researcher:    research.NewStaticResearcher([]model.IdeaCandidate{candidate}),
		Scorer:        &stubScorer{err: fmt.Errorf("scoring: %w", embed.ErrUnavailable)},
		MaxIterations: 3,
	})

	_, err := eng.Run(context.Background(), "test theme")
	if err == nil {
		t.Fatal("embedding failure must abort the run")
	}
	if !errors.Is(err, embed.ErrUnavailable) {
		t.Errorf("error should wrap the unavailable sentinel: %v", err)
	}
}

func TestEngine_Run_ResultsSortedByAdjustedTotal(t *testing.T) {
	candidates := []model.IdeaCandidate{
		{Title: "Weak Idea", Pain: "pain w", Solution: "solution w", SourceCredibility: model.CredibilityMedium},
		{Title: "Strong Idea", Pain: "pain s", Solution: "solution s", SourceCredibility: model.CredibilityMedium},
	}

	eng := newTestEngine(t, Options{
		Researcher: research.NewStaticResearcher(candidates),
		Scorer: &stubScorer{vectors: map[string]model.ScoreVector{
			"strong idea": strongVector(),
		}},
		MaxIterations: 1,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Ideas) != 2 {
		t.Fatalf("expected 2 ideas, got %d", len(result.Ideas))
	}
	if result.Ideas[0].Candidate.Title != "Strong Idea" {
		t.Errorf("ideas not sorted by adjusted total: %q first", result.Ideas[0].Candidate.Title)
	}
}

func TestEngine_Run_EnrichesMissingEvidence(t *testing.T) {
	candidate := model.IdeaCandidate{
		Title:             "Needs Metrics",
		Pain:              "pain",
		Solution:          "solution",
		SourceCredibility: model.CredibilityMedium,
	}

	volume := 4200
	difficulty := 55
	eng := newTestEngine(t, Options{
		Researcher: research.NewStaticResearcher([]model.IdeaCandidate{candidate}),
		Scorer:     &stubScorer{},
		Evidence: &stubEvidence{evidence: model.Evidence{
			SearchVolume:      &volume,
			KeywordDifficulty: &difficulty,
			Trend:             model.TrendRising,
			Source:            "api",
		}},
		MaxIterations: 1,
	})

	result, err := eng.Run(context.Background(), "test theme")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	enriched := result.Ideas[0].Candidate
	if enriched.SearchVolume == nil || *enriched.SearchVolume != 4200 {
		t.Errorf("search volume not enriched: %v", enriched.SearchVolume)
	}
	if enriched.TrendStatus != model.TrendRising {
		t.Errorf("trend not enriched: %v", enriched.TrendStatus)
	}
}
