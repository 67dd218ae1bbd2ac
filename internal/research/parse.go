package research

import (
	"regexp"
	"strings"

	"github.com/ppiankov/ideascout/internal/model"
)

var (
	separatorPattern = regexp.MustCompile(`[–—-]|:`)
	pricePattern     = regexp.MustCompile(`\$[0-9][0-9,]*(?:\s*[–—-]\s*[0-9][0-9,]*)?(?:/\w+)?`)
	clausePattern    = regexp.MustCompile(`[.;]`)
	wordPattern      = regexp.MustCompile(`\W+`)
)

// ParseBulletLine attempts to extract a candidate from one bullet line
// of the shape "Idea name – pain description. Solution description.
// Pricing" (or colon/semicolon separated). Returns nil if the line
// does not match a recognizable idea pattern.
func ParseBulletLine(line string) *model.IdeaCandidate {
	text := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• \t"))
	if len(text) < 10 {
		return nil
	}

	loc := separatorPattern.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	title := strings.TrimSpace(text[:loc[0]])
	remainder := strings.TrimSpace(text[loc[1]:])
	if title == "" {
		return nil
	}

	clauses := splitClauses(remainder)
	if len(clauses) == 0 {
		return nil
	}

	candidate := &model.IdeaCandidate{
		Title:             title,
		Pain:              clauses[0],
		SourceCredibility: model.CredibilityMedium,
		TrendStatus:       model.TrendUnknown,
	}
	if len(clauses) > 1 {
		candidate.Solution = clauses[1]
	}
	if price := pricePattern.FindString(line); price != "" {
		candidate.RevenueModel = price
	}

	Normalize(candidate)
	return candidate
}

func splitClauses(text string) []string {
	parts := clausePattern.Split(text, -1)
	var clauses []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			clauses = append(clauses, trimmed)
		}
	}
	return clauses
}

// ThemeRelevant reports whether a candidate's text plausibly belongs to
// the theme: it must mention a theme token alongside both a product
// marker and a pain marker
func ThemeRelevant(candidate *model.IdeaCandidate, theme string) bool {
	blob := strings.ToLower(candidate.Title + " " + candidate.Pain + " " + candidate.Solution)

	themeMatch := false
	for _, token := range tokenizeTheme(theme) {
		if strings.Contains(blob, token) {
			themeMatch = true
			break
		}
	}
	if !themeMatch {
		return false
	}

	productMarkers := []string{"saas", "software", "platform", "tool", "automation", "app", "solution", "service"}
	painMarkers := []string{"pain", "problem", "challenge", "struggle", "manual", "time-consuming", "inefficient", "expensive", "tedious", "costly"}

	return containsAny(blob, productMarkers) && containsAny(blob, painMarkers)
}

func tokenizeTheme(theme string) []string {
	var tokens []string
	for _, tok := range wordPattern.Split(strings.ToLower(theme), -1) {
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func containsAny(blob string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(blob, marker) {
			return true
		}
	}
	return false
}
