package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/ideascout/internal/embed"
	"github.com/ppiankov/ideascout/internal/model"
	"github.com/ppiankov/ideascout/internal/worker"
)

// scoreJob enriches and scores one candidate on a pool worker. The
// critic, feedback and gate stages are order-sensitive and run later
// on the coordinating goroutine.
type scoreJob struct {
	engine    *Engine
	index     int
	candidate *model.IdeaCandidate
}

type scoreResult struct {
	index       int
	candidate   *model.IdeaCandidate
	scores      *model.ScoreVector
	fingerprint []float64
	err         error
}

func (r *scoreResult) GetError() error {
	return r.err
}

func (j *scoreJob) Execute(ctx context.Context) worker.Result {
	result := &scoreResult{index: j.index, candidate: j.candidate}

	j.engine.enrichEvidence(ctx, j.candidate)

	scores, err := j.engine.scorer.Score(ctx, j.candidate)
	if err != nil {
		result.err = err
		return result
	}
	result.scores = scores

	vectors, err := j.engine.similarity.Vectors(ctx, []string{j.candidate.FingerprintText()})
	if err != nil {
		result.err = err
		return result
	}
	result.fingerprint = vectors[0]

	return result
}

// scoreBatch scores every candidate in the pool that has no cached
// result yet. Dimension scoring and evidence enrichment run on the
// worker pool; the critic, feedback and gate stages then run in pool
// order so novelty comparisons are deterministic.
func (e *Engine) scoreBatch(ctx context.Context, pool []model.IdeaCandidate) error {
	var jobs []*scoreJob
	for i := range pool {
		if _, ok := e.scored[fingerprintKey(&pool[i])]; ok {
			continue
		}
		jobs = append(jobs, &scoreJob{engine: e, index: len(jobs), candidate: &pool[i]})
	}
	if len(jobs) == 0 {
		return nil
	}

	wp := worker.NewPool(ctx, e.workers)
	wp.Start()
	for _, job := range jobs {
		wp.Submit(job)
	}
	results := wp.Wait()

	ordered := make([]*scoreResult, len(jobs))
	for _, r := range results {
		sr := r.(*scoreResult)
		ordered[sr.index] = sr
	}

	for i, sr := range ordered {
		if sr == nil {
			return fmt.Errorf("candidate %d not scored: %w", i, ctx.Err())
		}
		if sr.err != nil {
			if errors.Is(sr.err, embed.ErrUnavailable) {
				return sr.err
			}
			return fmt.Errorf("scoring %q: %w", sr.candidate.Title, sr.err)
		}
		e.finishCandidate(sr)
	}
	return nil
}

// finishCandidate runs the sequential post-scoring stages and records
// the result in the score cache
func (e *Engine) finishCandidate(sr *scoreResult) {
	candidate, scores := sr.candidate, sr.scores

	adj := e.critic.Evaluate(candidate, sr.fingerprint)
	scores.CriticAdjustment = adj.Delta
	scores.AddRationale(adj.Rationale...)

	if e.feedback != nil {
		if rating, ok := e.feedback.Rating(candidate.Title); ok {
			delta := e.feedback.Adjustment(candidate.Title)
			scores.FeedbackAdjustment = delta
			scores.AddRationale(fmt.Sprintf("user feedback: rated %.1f/5, adjustment %+.1f", rating, delta))
		}
	}

	recommendation := e.gate.Decide(candidate, scores)

	e.scored[fingerprintKey(candidate)] = &model.ScoredIdea{
		Candidate:      *candidate,
		Scores:         *scores,
		Recommendation: recommendation,
	}
}

// enrichEvidence fills missing market metrics from the evidence
// provider. A candidate that already carries metrics keeps them.
func (e *Engine) enrichEvidence(ctx context.Context, candidate *model.IdeaCandidate) {
	if e.evidence == nil {
		return
	}
	if candidate.SearchVolume != nil && candidate.KeywordDifficulty != nil &&
		candidate.TrendStatus != model.TrendUnknown && candidate.TrendStatus != "" {
		return
	}

	ev := e.evidence.Fetch(ctx, candidate.Title)
	if candidate.SearchVolume == nil {
		candidate.SearchVolume = ev.SearchVolume
	}
	if candidate.KeywordDifficulty == nil {
		candidate.KeywordDifficulty = ev.KeywordDifficulty
	}
	if candidate.TrendStatus == model.TrendUnknown || candidate.TrendStatus == "" {
		candidate.TrendStatus = ev.Trend
	}
}
