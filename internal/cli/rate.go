package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ppiankov/ideascout/internal/engine"
	"github.com/ppiankov/ideascout/internal/feedback"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rateTop      int
	feedbackPath string
)

// rateCmd represents the rate command
var rateCmd = &cobra.Command{
	Use:   "rate <report.json>",
	Short: "Rate ideas from a previous run",
	Long: `Rate walks through the top ideas of a saved report and records a 0-5
rating for each. Ratings persist across runs and shift future scores of
the same idea title: 5 adds +5 points, 0 subtracts 5, 2.5 is neutral.

Enter a number from 0 to 5, press Enter to skip an idea, or 'q' to stop.

Example:
  ideascout run "B2B SaaS" --json report.json
  ideascout rate report.json --top 5`,
	Args: cobra.ExactArgs(1),
	RunE: runRate,
}

func init() {
	rootCmd.AddCommand(rateCmd)

	rateCmd.Flags().IntVar(&rateTop, "top", 10, "number of top ideas to rate")
	rateCmd.Flags().StringVar(&feedbackPath, "feedback", "", "feedback store path (default from config)")
}

func runRate(cmd *cobra.Command, args []string) error {
	reportPath := args[0]

	data, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	var result engine.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}
	if len(result.Ideas) == 0 {
		fmt.Println("Report contains no ideas to rate.")
		return nil
	}

	path := feedbackPath
	if path == "" {
		path = viper.GetString("feedback.path")
	}
	if path == "" {
		path = "data/user_feedback.json"
	}
	store := feedback.Load(path)

	ideas := result.Ideas
	if rateTop > 0 && len(ideas) > rateTop {
		ideas = ideas[:rateTop]
	}

	fmt.Printf("Rating top %d ideas for theme %q (0-5, Enter to skip, q to stop)\n\n", len(ideas), result.Theme)

	scanner := bufio.NewScanner(os.Stdin)
	rated := 0
	for i, idea := range ideas {
		fmt.Printf("%2d. [%5.1f] %s\n", i+1, idea.Scores.AdjustedTotal(), idea.Candidate.Title)
		if idea.Candidate.Pain != "" {
			fmt.Printf("    %s\n", idea.Candidate.Pain)
		}
		if current, ok := store.Rating(idea.Candidate.Title); ok {
			fmt.Printf("    current rating: %.1f\n", current)
		}
		fmt.Print("    rating> ")

		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "q") {
			break
		}

		rating, err := strconv.ParseFloat(input, 64)
		if err != nil || rating < 0 || rating > 5 {
			fmt.Println("    skipped: rating must be a number from 0 to 5")
			continue
		}
		store.Add(idea.Candidate.Title, rating)
		rated++
	}

	if !store.Dirty() {
		fmt.Println("\nNo ratings recorded.")
		return nil
	}
	if err := store.Save(); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	fmt.Printf("\n✓ Saved %d rating(s) to %s\n", rated, path)
	return nil
}
