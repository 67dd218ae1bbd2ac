package model

// Dimension point budgets. The five budgets sum to 100.
const (
	MaxDemand          = 30.0
	MaxAcquisition     = 20.0
	MaxMVPComplexity   = 20.0
	MaxCompetition     = 20.0
	MaxRevenueVelocity = 10.0
	MaxTotal           = 100.0
)

// Dimension stores one sub-score with its budget and a human-readable
// rationale for explainability
type Dimension struct {
	Value     float64 `json:"value"`
	Max       float64 `json:"max"`
	Rationale string  `json:"rationale"`
}

// ScoreVector aggregates the five scoring dimensions for a candidate
// plus the additive adjustments applied after scoring
type ScoreVector struct {
	Demand          Dimension `json:"demand"`           // 0-30
	Acquisition     Dimension `json:"acquisition"`      // 0-20
	MVPComplexity   Dimension `json:"mvp_complexity"`   // 0-20, higher = simpler build
	Competition     Dimension `json:"competition"`      // 0-20, higher = less crowded
	RevenueVelocity Dimension `json:"revenue_velocity"` // 0-10

	// Adjustments are tracked separately and applied additively.
	// Clamping happens only in AdjustedTotal, after all of them.
	CriticAdjustment   float64 `json:"critic_adjustment"`
	FeedbackAdjustment float64 `json:"feedback_adjustment"`

	// Rationale collects evidence strings from the scorer, critic,
	// feedback adjuster and gate, in application order
	Rationale []string `json:"rationale"`
}

// Total returns the unclamped sum of the five dimensions, before any
// adjustment
func (v *ScoreVector) Total() float64 {
	return v.Demand.Value +
		v.Acquisition.Value +
		v.MVPComplexity.Value +
		v.Competition.Value +
		v.RevenueVelocity.Value
}

// AdjustedTotal returns the total after critic and feedback
// adjustments, clamped to [0, MaxTotal]
func (v *ScoreVector) AdjustedTotal() float64 {
	total := v.Total() + v.CriticAdjustment + v.FeedbackAdjustment
	if total < 0 {
		return 0
	}
	if total > MaxTotal {
		return MaxTotal
	}
	return total
}

// AddRationale appends evidence strings to the vector
func (v *ScoreVector) AddRationale(lines ...string) {
	v.Rationale = append(v.Rationale, lines...)
}

// ScoredIdea pairs a candidate with its score vector and final
// recommendation
type ScoredIdea struct {
	Candidate      IdeaCandidate  `json:"candidate"`
	Scores         ScoreVector    `json:"scores"`
	Recommendation Recommendation `json:"recommendation"`
}
