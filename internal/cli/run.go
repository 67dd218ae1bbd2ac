package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/ideascout/internal/engine"
	"github.com/ppiankov/ideascout/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON        string
	outMD          string
	timeout        time.Duration
	datasetPath    string
	sourceURLs     []string
	embedProvider  string
	embedModel     string
	iterations     int
	workers        int
	minCredibility string
	noCache        bool
	noFooter       bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <theme>",
	Short: "Evaluate business ideas for a theme",
	Long: `Run collects idea candidates for a theme, scores them on demand,
acquisition, MVP complexity, competition and revenue velocity, applies
credibility and feedback adjustments, and gates each idea into
green_build, yellow_validate or red_kill.

If no green_build emerges, the collect-score-evaluate loop repeats with
reformulated queries, up to a fixed iteration budget.

Example:
  ideascout run "AI automation for accountants"
  ideascout run "B2B SaaS" --dataset ideas.yaml --json report.json --md report.md
  ideascout run "developer tools" --source https://news.example.com/trends --embedding openai`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Output flags
	runCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	runCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	runCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Acquisition flags
	runCmd.Flags().StringVar(&datasetPath, "dataset", "", "candidate dataset file (JSON or YAML)")
	runCmd.Flags().StringSliceVar(&sourceURLs, "source", nil, "web source URL to mine for candidates (repeatable)")
	runCmd.Flags().StringVar(&minCredibility, "min-credibility", "low", "drop sources below this tier (high, medium, low)")

	// Scoring flags
	runCmd.Flags().StringVar(&embedProvider, "embedding", "hash", "embedding provider (openai, hash)")
	runCmd.Flags().StringVar(&embedModel, "embedding-model", "", "embedding model name (provider default if empty)")
	runCmd.Flags().IntVar(&iterations, "iterations", 3, "maximum refinement iterations")
	runCmd.Flags().IntVar(&workers, "workers", 4, "scoring worker count")

	// HTTP flags
	runCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall run timeout")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable embedding and metrics cache")
}

func runRun(cmd *cobra.Command, args []string) error {
	theme := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildRunConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Theme: %s\n", theme)
		fmt.Fprintf(os.Stderr, "Embedding: %s\n", cfg.Embedding.Provider)
		fmt.Fprintf(os.Stderr, "Iterations: %d\n", cfg.Refine.MaxIterations)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	eng, store, err := engine.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := eng.Run(ctx, theme)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Evaluated %d ideas in %d iterations (%s)\n",
			len(result.Ideas), result.Iterations, result.Stopped)
		fmt.Fprintf(os.Stderr, "✓ Green builds: %d\n", result.GreenCount())
		fmt.Fprintln(os.Stderr)
	}

	renderer := engine.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}
	renderer.RenderSummary(result)

	// Persist any ratings added while this process ran
	if store.Dirty() {
		if err := store.Save(); err != nil {
			return fmt.Errorf("save feedback: %w", err)
		}
	}

	return nil
}

// buildRunConfig merges defaults, config file values and flags
func buildRunConfig() *model.Config {
	cfg := model.DefaultConfig()

	cfg.Embedding.Provider = embedProvider
	cfg.Embedding.Model = embedModel
	cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Research.DatasetPath = datasetPath
	cfg.Research.SourceURLs = sourceURLs
	cfg.Research.MinCredibility = minCredibility
	cfg.Refine.MaxIterations = iterations
	cfg.Concurrency.ScoringWorkers = workers
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	// SEO provider settings come from config file or environment only
	if v := viper.GetString("seo.base_url"); v != "" {
		cfg.SEO.BaseURL = v
	}
	if v := viper.GetString("seo.api_key"); v != "" {
		cfg.SEO.APIKey = v
	}
	if v := viper.GetString("feedback.path"); v != "" {
		cfg.Feedback.Path = v
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}

	return cfg
}
