package research

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/ideascout/internal/model"
	"gopkg.in/yaml.v3"
)

// rawCandidate is the on-disk dataset shape. Credibility and dates are
// plain strings there and parsed into the closed enums on load.
type rawCandidate struct {
	Title             string   `json:"title" yaml:"title"`
	ICP               string   `json:"icp" yaml:"icp"`
	Pain              string   `json:"pain" yaml:"pain"`
	Solution          string   `json:"solution" yaml:"solution"`
	RevenueModel      string   `json:"revenue_model" yaml:"revenue_model"`
	KeyRisks          []string `json:"key_risks" yaml:"key_risks"`
	Credibility       string   `json:"credibility" yaml:"credibility"`
	SourceDate        string   `json:"source_date" yaml:"source_date"` // YYYY-MM-DD
	Source            string   `json:"source" yaml:"source"`
	SearchVolume      *int     `json:"search_volume" yaml:"search_volume"`
	KeywordDifficulty *int     `json:"keyword_difficulty" yaml:"keyword_difficulty"`
	TrendStatus       string   `json:"trend_status" yaml:"trend_status"`
}

// DatasetResearcher serves candidates from a JSON or YAML file. The
// same candidates are returned for every query variant; merging
// dedupes them upstream.
type DatasetResearcher struct {
	candidates []model.IdeaCandidate
}

// NewDatasetResearcher loads and validates a dataset file
func NewDatasetResearcher(path string) (*DatasetResearcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var raw []rawCandidate
	if strings.HasSuffix(strings.ToLower(path), ".yaml") || strings.HasSuffix(strings.ToLower(path), ".yml") {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	candidates := make([]model.IdeaCandidate, 0, len(raw))
	for i, rc := range raw {
		if rc.Title == "" {
			return nil, fmt.Errorf("dataset %s: entry %d is missing a title", path, i)
		}
		candidates = append(candidates, rc.toCandidate())
	}

	return &DatasetResearcher{candidates: candidates}, nil
}

// NewStaticResearcher wraps a fixed candidate slice, used for the
// built-in seed dataset and in tests
func NewStaticResearcher(candidates []model.IdeaCandidate) *DatasetResearcher {
	return &DatasetResearcher{candidates: candidates}
}

// Fetch implements Researcher
func (r *DatasetResearcher) Fetch(ctx context.Context, theme, variant string) ([]model.IdeaCandidate, error) {
	out := make([]model.IdeaCandidate, len(r.candidates))
	copy(out, r.candidates)
	return out, nil
}

func (rc rawCandidate) toCandidate() model.IdeaCandidate {
	candidate := model.IdeaCandidate{
		Title:             rc.Title,
		ICP:               rc.ICP,
		Pain:              rc.Pain,
		Solution:          rc.Solution,
		RevenueModel:      rc.RevenueModel,
		KeyRisks:          rc.KeyRisks,
		SourceCredibility: model.ParseCredibilityTier(rc.Credibility),
		SearchVolume:      rc.SearchVolume,
		KeywordDifficulty: rc.KeywordDifficulty,
		TrendStatus:       model.ParseTrendStatus(rc.TrendStatus),
	}
	if rc.Source != "" {
		candidate.SourceURLs = []string{rc.Source}
	}
	if rc.SourceDate != "" {
		if t, err := time.Parse("2006-01-02", rc.SourceDate); err == nil {
			candidate.SourceDate = &t
		}
	}
	Normalize(&candidate)
	return candidate
}

// SeedCandidates is the built-in starter pool used when no dataset or
// source URLs are configured
func SeedCandidates() []model.IdeaCandidate {
	date := func(value string) *time.Time {
		t, _ := time.Parse("2006-01-02", value)
		return &t
	}

	return []model.IdeaCandidate{
		{
			Title:        "AI-first bookkeeping for SMBs",
			ICP:          "Small and medium-sized businesses",
			Pain:         "Manual bookkeeping and costly accountants waste hours every month",
			Solution:     "Autonomous reconciliation that connects to QuickBooks and Xero and closes the books automatically",
			RevenueModel: "$49-149/month subscription",
			KeyRisks: []string{
				"Regulatory and compliance requirements for financial data",
				"Convincing SMB owners to trust automation with sensitive accounting",
			},
			SourceCredibility: model.CredibilityHigh,
			SourceDate:        date("2025-01-01"),
			SourceURLs:        []string{"curated:trend-report-2025"},
			TrendStatus:       model.TrendUnknown,
		},
		{
			Title:        "Candidate screening app",
			ICP:          "Recruiters and HR teams at small and medium businesses",
			Pain:         "Manual resume screening and shortlisting candidates consumes hours of recruiter time",
			Solution:     "Tool that parses resumes and ranks candidates by relevance and skills",
			RevenueModel: "$49-199/month per recruiter",
			KeyRisks: []string{
				"Compliance with equal opportunity laws",
				"Risk of algorithmic bias impacting fairness",
			},
			SourceCredibility: model.CredibilityHigh,
			SourceDate:        date("2025-01-01"),
			SourceURLs:        []string{"curated:trend-report-2025"},
			TrendStatus:       model.TrendUnknown,
		},
		{
			Title:        "SEO keyword research assistant",
			ICP:          "Small marketing agencies and freelance marketers",
			Pain:         "Finding profitable long-tail keywords and assessing difficulty is tedious and manual",
			Solution:     "Tool that suggests keywords, analyzes competition and surfaces low-hanging opportunities",
			RevenueModel: "$29-99/month subscription",
			KeyRisks: []string{
				"Crowded market with existing tools",
				"Requires up-to-date search engine data",
			},
			SourceCredibility: model.CredibilityHigh,
			SourceDate:        date("2025-01-01"),
			SourceURLs:        []string{"curated:trend-report-2025"},
			TrendStatus:       model.TrendUnknown,
		},
		{
			Title:        "Automated customer feedback annotation tool",
			ICP:          "Product managers and support teams",
			Pain:         "Large volumes of customer feedback are expensive to categorize and act on manually",
			Solution:     "Service that tags and summarizes feedback, highlighting top issues and feature requests",
			RevenueModel: "$49-149/month based on data volume",
			KeyRisks: []string{
				"Tagging accuracy must be high to be useful",
				"Overlap with existing sentiment analysis platforms",
			},
			SourceCredibility: model.CredibilityHigh,
			SourceDate:        date("2025-01-01"),
			SourceURLs:        []string{"curated:trend-report-2025"},
			TrendStatus:       model.TrendUnknown,
		},
		{
			Title:        "Visual dashboard builder",
			ICP:          "Data analysts and small business owners",
			Pain:         "Non-technical users struggle to build dashboards from diverse data sources",
			Solution:     "Drag-and-drop tool that connects to spreadsheets and databases and auto-creates dashboards",
			RevenueModel: "$59-199/month depending on seats",
			KeyRisks: []string{
				"Integration complexity with many data sources",
				"Competes with established BI platforms",
			},
			SourceCredibility: model.CredibilityHigh,
			SourceDate:        date("2025-01-01"),
			SourceURLs:        []string{"curated:trend-report-2025"},
			TrendStatus:       model.TrendUnknown,
		},
	}
}
