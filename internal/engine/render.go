package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/ideascout/internal/model"
)

// Renderer writes run results as JSON, Markdown and a stdout summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result to a JSON file
func (r *Renderer) RenderJSON(result *RunResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// RenderMarkdown writes a human-readable report with score breakdowns
// and the rationale trail for every idea
func (r *Renderer) RenderMarkdown(result *RunResult, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Idea Evaluation Report: %s\n\n", result.Theme)
	fmt.Fprintf(&b, "- **Iterations:** %d\n", result.Iterations)
	fmt.Fprintf(&b, "- **Stopped:** %s\n", result.Stopped)
	fmt.Fprintf(&b, "- **Ideas evaluated:** %d\n", len(result.Ideas))
	fmt.Fprintf(&b, "- **Green builds:** %d\n\n", result.GreenCount())

	if len(result.Ideas) == 0 {
		b.WriteString("No candidates survived evaluation for this theme.\n")
	} else {
		b.WriteString("| # | Idea | Demand | Acq | MVP | Comp | Vel | Critic | Feedback | Total | Verdict |\n")
		b.WriteString("|---|------|--------|-----|-----|------|-----|--------|----------|-------|--------|\n")
		for i, idea := range result.Ideas {
			s := idea.Scores
			fmt.Fprintf(&b, "| %d | %s | %.1f | %.1f | %.1f | %.1f | %.1f | %+.1f | %+.1f | **%.1f** | %s |\n",
				i+1, idea.Candidate.Title,
				s.Demand.Value, s.Acquisition.Value, s.MVPComplexity.Value,
				s.Competition.Value, s.RevenueVelocity.Value,
				s.CriticAdjustment, s.FeedbackAdjustment,
				s.AdjustedTotal(), verdictLabel(idea.Recommendation))
		}
		b.WriteString("\n")

		for i, idea := range result.Ideas {
			fmt.Fprintf(&b, "## %d. %s\n\n", i+1, idea.Candidate.Title)
			if idea.Candidate.ICP != "" {
				fmt.Fprintf(&b, "- **ICP:** %s\n", idea.Candidate.ICP)
			}
			if idea.Candidate.Pain != "" {
				fmt.Fprintf(&b, "- **Pain:** %s\n", idea.Candidate.Pain)
			}
			if idea.Candidate.Solution != "" {
				fmt.Fprintf(&b, "- **Solution:** %s\n", idea.Candidate.Solution)
			}
			if idea.Candidate.RevenueModel != "" {
				fmt.Fprintf(&b, "- **Revenue model:** %s\n", idea.Candidate.RevenueModel)
			}
			fmt.Fprintf(&b, "- **Recommendation:** %s\n\n", verdictLabel(idea.Recommendation))
			b.WriteString("**Rationale:**\n\n")
			for _, line := range idea.Scores.Rationale {
				fmt.Fprintf(&b, "- %s\n", line)
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\n*Generated by ideascout on %s. Scores are heuristic signals, not investment advice.*\n",
			time.Now().UTC().Format("2006-01-02"))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// RenderSummary prints a compact ranking table to stdout
func (r *Renderer) RenderSummary(result *RunResult) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Idea Evaluation: %s\n", result.Theme)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Iterations: %d (%s)\n", result.Iterations, result.Stopped)
	fmt.Printf("  Evaluated:  %d ideas\n", len(result.Ideas))
	fmt.Println()

	if len(result.Ideas) == 0 {
		fmt.Println("  No candidates survived evaluation.")
		fmt.Println()
		return
	}

	for i, idea := range result.Ideas {
		fmt.Printf("  %2d. [%5.1f] %-8s %s\n",
			i+1, idea.Scores.AdjustedTotal(), verdictLabel(idea.Recommendation), idea.Candidate.Title)
	}
	fmt.Println()
}

func verdictLabel(rec model.Recommendation) string {
	switch rec {
	case model.RecommendationGreenBuild:
		return "🟢 BUILD"
	case model.RecommendationYellowValidate:
		return "🟡 VALIDATE"
	case model.RecommendationRedKill:
		return "🔴 KILL"
	default:
		return string(rec)
	}
}
