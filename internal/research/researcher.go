package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/ideascout/internal/model"
)

// Researcher acquires raw idea candidates for a theme. Implementations
// may return an empty slice on no results; that is not an error.
type Researcher interface {
	Fetch(ctx context.Context, theme, variant string) ([]model.IdeaCandidate, error)
}

// DimensionHint biases query variants toward the scoring dimension the
// current pool is weakest on
type DimensionHint string

const (
	HintNone            DimensionHint = ""
	HintDemand          DimensionHint = "demand"
	HintAcquisition     DimensionHint = "acquisition"
	HintMVPComplexity   DimensionHint = "mvp_complexity"
	HintCompetition     DimensionHint = "competition"
	HintRevenueVelocity DimensionHint = "revenue_velocity"
)

// QueryVariants builds the query set for one iteration. The base set
// widens coverage; later iterations rotate phrasing and append
// wording targeting the weakest observed dimension.
func QueryVariants(theme string, iteration int, hint DimensionHint) []string {
	base := strings.TrimSpace(theme)
	if base == "" {
		return nil
	}

	rotations := [][]string{
		{base, base + " pain points", base + " alternatives"},
		{base + " automation tools", base + " workflow bottlenecks", base + " software ideas"},
		{base + " SaaS solutions", base + " unsolved problems", base + " tool gaps"},
	}
	variants := rotations[iteration%len(rotations)]

	switch hint {
	case HintDemand:
		variants = append(variants, base+" biggest pain points")
	case HintAcquisition:
		variants = append(variants, base+" for niche audiences")
	case HintMVPComplexity:
		variants = append(variants, base+" simple tools")
	case HintCompetition:
		variants = append(variants, base+" underserved markets")
	case HintRevenueVelocity:
		variants = append(variants, base+" low cost tools")
	}

	return dedupeStrings(variants)
}

// Merge combines newly fetched candidates into the known pool,
// deduplicating by normalized title. When titles collide the entry
// with the higher source credibility wins. It returns the merged pool
// and the number of genuinely new candidates.
func Merge(known []model.IdeaCandidate, fetched []model.IdeaCandidate) ([]model.IdeaCandidate, int) {
	index := make(map[string]int, len(known))
	merged := make([]model.IdeaCandidate, len(known))
	copy(merged, known)
	for i := range merged {
		index[merged[i].NormalizedTitle()] = i
	}

	added := 0
	for _, candidate := range fetched {
		title := candidate.NormalizedTitle()
		if title == "" {
			continue
		}
		if i, exists := index[title]; exists {
			if credibilityRank(candidate.SourceCredibility) > credibilityRank(merged[i].SourceCredibility) {
				merged[i] = candidate
			}
			continue
		}
		index[title] = len(merged)
		merged = append(merged, candidate)
		added++
	}

	return merged, added
}

// FilterByCredibility drops candidates below the minimum tier
func FilterByCredibility(candidates []model.IdeaCandidate, min model.CredibilityTier) []model.IdeaCandidate {
	minRank := credibilityRank(min)
	var kept []model.IdeaCandidate
	for _, c := range candidates {
		if credibilityRank(c.SourceCredibility) >= minRank {
			kept = append(kept, c)
		}
	}
	return kept
}

func credibilityRank(tier model.CredibilityTier) int {
	switch tier {
	case model.CredibilityHigh:
		return 2
	case model.CredibilityMedium:
		return 1
	default:
		return 0
	}
}

// Normalize cleans up a raw candidate in place: whitespace collapsed,
// missing text fields become empty strings so malformed candidates
// score normally instead of failing
func Normalize(candidate *model.IdeaCandidate) {
	candidate.Title = cleanText(candidate.Title)
	candidate.ICP = cleanText(candidate.ICP)
	candidate.Pain = cleanText(candidate.Pain)
	candidate.Solution = cleanText(candidate.Solution)
	candidate.RevenueModel = cleanText(candidate.RevenueModel)
	for i, risk := range candidate.KeyRisks {
		candidate.KeyRisks[i] = cleanText(risk)
	}
	if candidate.TrendStatus == "" {
		candidate.TrendStatus = model.TrendUnknown
	}
}

func cleanText(value string) string {
	value = strings.ReplaceAll(value, "•", "")
	return strings.Join(strings.Fields(value), " ")
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var unique []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	return unique
}

// Multi fans one fetch out over several researchers, concatenating
// results. A failure of one source does not abort the others.
type Multi []Researcher

// Fetch implements Researcher
func (m Multi) Fetch(ctx context.Context, theme, variant string) ([]model.IdeaCandidate, error) {
	var all []model.IdeaCandidate
	var firstErr error
	for _, r := range m {
		candidates, err := r.Fetch(ctx, theme, variant)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("researcher: %w", err)
			}
			continue
		}
		all = append(all, candidates...)
	}
	if len(all) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return all, nil
}
