package critic

import (
	"fmt"
	"time"

	"github.com/ppiankov/ideascout/internal/embed"
	"github.com/ppiankov/ideascout/internal/model"
)

// Adjustment rule magnitudes. The rules are independent and their
// deltas sum.
const (
	highCredibilityBonus  = 2.0
	lowCredibilityPenalty = 2.0

	staleThresholdYears = 3
	stalePenaltyPerYear = 0.5
	maxStalePenalty     = 3.0

	noveltyThreshold = 0.90
	noveltyPenalty   = 3.0
)

// Adjustment is the critic's verdict on one candidate
type Adjustment struct {
	Delta     float64
	Rationale []string
}

// Critic adjusts scores based on source credibility, recency and
// novelty versus candidates already seen in the run
type Critic struct {
	now func() time.Time

	// fingerprints of candidates already accepted this run, in
	// processing order. Keys are normalized titles.
	seen       []seenEntry
	seenTitles map[string]bool
}

type seenEntry struct {
	title  string
	vector []float64
}

// New creates a critic. The clock is injectable for tests via Now.
func New() *Critic {
	return &Critic{
		now:        time.Now,
		seenTitles: make(map[string]bool),
	}
}

// SetClock overrides the time source, for deterministic recency tests
func (c *Critic) SetClock(now func() time.Time) {
	c.now = now
}

// Evaluate returns the additive adjustment for a candidate. The
// fingerprint is the embedding of the candidate's pain+solution text;
// it is compared against fingerprints of candidates evaluated earlier
// in the run, then recorded so later near-duplicates are penalized.
// The first occurrence of a fingerprint is never penalized.
func (c *Critic) Evaluate(candidate *model.IdeaCandidate, fingerprint []float64) Adjustment {
	adj := Adjustment{}

	c.applyCredibility(candidate, &adj)
	c.applyRecency(candidate, &adj)
	c.applyNovelty(candidate, fingerprint, &adj)

	return adj
}

func (c *Critic) applyCredibility(candidate *model.IdeaCandidate, adj *Adjustment) {
	switch candidate.SourceCredibility {
	case model.CredibilityHigh:
		adj.Delta += highCredibilityBonus
		adj.Rationale = append(adj.Rationale,
			fmt.Sprintf("critic: high source credibility, +%.1f", highCredibilityBonus))
	case model.CredibilityMedium:
		adj.Rationale = append(adj.Rationale, "critic: medium source credibility, no change")
	case model.CredibilityLow, model.CredibilityUnknown:
		adj.Delta -= lowCredibilityPenalty
		adj.Rationale = append(adj.Rationale,
			fmt.Sprintf("critic: %s source credibility, -%.1f", candidate.SourceCredibility, lowCredibilityPenalty))
	}
}

// applyRecency penalizes sources older than the staleness threshold,
// proportional to how far past it they are. An unknown date is
// neutral: absence of metadata is common and is not punished as if it
// were known-stale.
func (c *Critic) applyRecency(candidate *model.IdeaCandidate, adj *Adjustment) {
	if candidate.SourceDate == nil {
		adj.Rationale = append(adj.Rationale, "critic: source date unknown, no recency penalty")
		return
	}

	ageYears := c.now().Sub(*candidate.SourceDate).Hours() / 24 / 365
	if ageYears <= staleThresholdYears {
		adj.Rationale = append(adj.Rationale,
			fmt.Sprintf("critic: source %.1f years old, within freshness window", ageYears))
		return
	}

	penalty := (ageYears - staleThresholdYears) * stalePenaltyPerYear
	if penalty > maxStalePenalty {
		penalty = maxStalePenalty
	}
	adj.Delta -= penalty
	adj.Rationale = append(adj.Rationale,
		fmt.Sprintf("critic: source %.1f years old exceeds %d-year threshold, -%.1f", ageYears, staleThresholdYears, penalty))
}

func (c *Critic) applyNovelty(candidate *model.IdeaCandidate, fingerprint []float64, adj *Adjustment) {
	title := candidate.NormalizedTitle()
	if c.seenTitles[title] {
		// Same idea re-evaluated; do not compare against itself
		return
	}

	for _, entry := range c.seen {
		sim := embed.Cosine(entry.vector, fingerprint)
		if sim >= noveltyThreshold {
			adj.Delta -= noveltyPenalty
			adj.Rationale = append(adj.Rationale,
				fmt.Sprintf("critic: near-duplicate of %q (similarity %.2f), -%.1f", entry.title, sim, noveltyPenalty))
			break
		}
	}

	c.seen = append(c.seen, seenEntry{title: title, vector: fingerprint})
	c.seenTitles[title] = true
}
