package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/ideascout/internal/critic"
	"github.com/ppiankov/ideascout/internal/feedback"
	"github.com/ppiankov/ideascout/internal/gate"
	"github.com/ppiankov/ideascout/internal/model"
	"github.com/ppiankov/ideascout/internal/research"
	"github.com/ppiankov/ideascout/internal/seo"
)

// Phase is the refinement loop state
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseScoring    Phase = "scoring"
	PhaseEvaluating Phase = "evaluating"
	PhaseDone       Phase = "done"
)

// StopReason records why the loop terminated
type StopReason string

const (
	StopGreenFound      StopReason = "green_found"
	StopBudgetExhausted StopReason = "budget_exhausted"
	StopNoNewCandidates StopReason = "no_new_candidates"
)

// Scorer computes the dimension scores for one candidate
type Scorer interface {
	Score(ctx context.Context, candidate *model.IdeaCandidate) (*model.ScoreVector, error)
}

// Fingerprinter embeds texts into vectors for novelty comparison
type Fingerprinter interface {
	Vectors(ctx context.Context, texts []string) ([][]float64, error)
}

// Engine orchestrates the bounded collect-score-evaluate loop. One
// Engine serves one run; the feedback store may be shared across runs.
type Engine struct {
	researcher research.Researcher
	scorer     Scorer
	critic     *critic.Critic
	feedback   *feedback.Store
	gate       *gate.Gate
	evidence   seo.Provider
	similarity Fingerprinter

	maxIterations  int
	pruneFloor     float64
	minCredibility model.CredibilityTier
	workers        int

	// scored caches results by candidate fingerprint so re-entering
	// the scoring phase never recomputes an already-scored candidate
	scored map[string]*model.ScoredIdea

	progress func(format string, args ...any) // optional, for verbose CLI output
}

// Options configures a new Engine
type Options struct {
	Researcher     research.Researcher
	Scorer         Scorer
	Critic         *critic.Critic
	Feedback       *feedback.Store
	Gate           *gate.Gate
	Evidence       seo.Provider
	Similarity     Fingerprinter
	MaxIterations  int
	PruneFloor     float64
	MinCredibility model.CredibilityTier
	Workers        int
	Progress       func(format string, args ...any)
}

// New creates an engine for one run
func New(opts Options) *Engine {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 3
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(string, ...any) {}
	}

	return &Engine{
		researcher:     opts.Researcher,
		scorer:         opts.Scorer,
		critic:         opts.Critic,
		feedback:       opts.Feedback,
		gate:           opts.Gate,
		evidence:       opts.Evidence,
		similarity:     opts.Similarity,
		maxIterations:  maxIterations,
		pruneFloor:     opts.PruneFloor,
		minCredibility: opts.MinCredibility,
		workers:        workers,
		scored:         make(map[string]*model.ScoredIdea),
		progress:       progress,
	}
}

// RunResult is the ordered outcome of a run
type RunResult struct {
	Theme      string             `json:"theme"`
	Ideas      []model.ScoredIdea `json:"ideas"` // sorted descending by adjusted total
	Iterations int                `json:"iterations"`
	Stopped    StopReason         `json:"stopped"`
}

// GreenCount returns the number of green_build recommendations
func (r *RunResult) GreenCount() int {
	count := 0
	for _, idea := range r.Ideas {
		if idea.Recommendation == model.RecommendationGreenBuild {
			count++
		}
	}
	return count
}

// Run executes the refinement loop for a theme. An empty result set is
// a valid terminal state, not an error; the only fatal failure is the
// embedding capability becoming unavailable.
func (e *Engine) Run(ctx context.Context, theme string) (*RunResult, error) {
	var pool []model.IdeaCandidate
	hint := research.HintNone
	stopped := StopBudgetExhausted
	iterations := 0

	for iteration := 0; iteration < e.maxIterations; iteration++ {
		iterations = iteration + 1

		// Collecting
		added := 0
		for _, variant := range research.QueryVariants(theme, iteration, hint) {
			fetched, err := e.researcher.Fetch(ctx, theme, variant)
			if err != nil {
				// A failed acquisition call skips one variant; the
				// remaining variants and the scored pool still stand
				e.progress("researcher query %q failed: %v", variant, err)
				continue
			}
			for i := range fetched {
				research.Normalize(&fetched[i])
			}
			fetched = research.FilterByCredibility(fetched, e.minCredibility)
			var n int
			pool, n = research.Merge(pool, fetched)
			added += n
		}
		e.progress("iteration %d: %d new candidates, pool %d", iteration+1, added, len(pool))

		// Scoring: the whole batch completes before evaluation
		if err := e.scoreBatch(ctx, pool); err != nil {
			return nil, fmt.Errorf("scoring aborted: %w", err)
		}

		// Evaluating
		if e.greenExists(pool) {
			stopped = StopGreenFound
			break
		}
		if added == 0 {
			stopped = StopNoNewCandidates
			break
		}
		if iteration == e.maxIterations-1 {
			stopped = StopBudgetExhausted
			break
		}

		pool = e.prune(pool)
		hint = e.weakestDimension(pool)
		e.progress("iteration %d: no green_build yet, biasing next queries toward %q", iteration+1, string(hint))
	}

	result := &RunResult{
		Theme:      theme,
		Iterations: iterations,
		Stopped:    stopped,
	}
	for _, candidate := range pool {
		if idea, ok := e.scored[fingerprintKey(&candidate)]; ok {
			result.Ideas = append(result.Ideas, *idea)
		}
	}
	sortIdeas(result.Ideas)

	return result, nil
}

func (e *Engine) greenExists(pool []model.IdeaCandidate) bool {
	for i := range pool {
		if idea, ok := e.scored[fingerprintKey(&pool[i])]; ok {
			if idea.Recommendation == model.RecommendationGreenBuild {
				return true
			}
		}
	}
	return false
}

// prune discards red_kill candidates whose adjusted total fell below
// the floor, bounding pool growth across iterations
func (e *Engine) prune(pool []model.IdeaCandidate) []model.IdeaCandidate {
	if e.pruneFloor <= 0 {
		return pool
	}

	kept := pool[:0]
	for _, candidate := range pool {
		idea, ok := e.scored[fingerprintKey(&candidate)]
		if ok && idea.Recommendation == model.RecommendationRedKill && idea.Scores.AdjustedTotal() < e.pruneFloor {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

// weakestDimension finds the dimension with the lowest average share
// of its budget across the scored pool, to bias the next query set
func (e *Engine) weakestDimension(pool []model.IdeaCandidate) research.DimensionHint {
	type accumulator struct {
		hint research.DimensionHint
		sum  float64
	}
	accs := []accumulator{
		{hint: research.HintDemand},
		{hint: research.HintAcquisition},
		{hint: research.HintMVPComplexity},
		{hint: research.HintCompetition},
		{hint: research.HintRevenueVelocity},
	}

	count := 0
	for i := range pool {
		idea, ok := e.scored[fingerprintKey(&pool[i])]
		if !ok {
			continue
		}
		count++
		dims := []model.Dimension{
			idea.Scores.Demand,
			idea.Scores.Acquisition,
			idea.Scores.MVPComplexity,
			idea.Scores.Competition,
			idea.Scores.RevenueVelocity,
		}
		for j, dim := range dims {
			accs[j].sum += dim.Value / dim.Max
		}
	}
	if count == 0 {
		return research.HintNone
	}

	weakest := accs[0]
	for _, acc := range accs[1:] {
		if acc.sum < weakest.sum {
			weakest = acc
		}
	}
	return weakest.hint
}

// fingerprintKey identifies a scoring result: normalized title plus
// pain and solution text
func fingerprintKey(candidate *model.IdeaCandidate) string {
	return candidate.NormalizedTitle() + "|" + candidate.FingerprintText()
}

// sortIdeas orders by adjusted total descending, title ascending on
// ties so output is stable
func sortIdeas(ideas []model.ScoredIdea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		ti, tj := ideas[i].Scores.AdjustedTotal(), ideas[j].Scores.AdjustedTotal()
		if ti != tj {
			return ti > tj
		}
		return ideas[i].Candidate.NormalizedTitle() < ideas[j].Candidate.NormalizedTitle()
	})
}
