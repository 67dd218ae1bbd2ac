package research

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/ideascout/internal/model"
	"github.com/ppiankov/ideascout/internal/util"
	"github.com/ppiankov/ideascout/internal/worker"
	"golang.org/x/net/html"
)

// WebResearcher extracts bullet-pointed idea lines from configured web
// pages. Fetches honor robots.txt and are rate limited per domain.
type WebResearcher struct {
	sourceURLs  []string
	httpClient  *http.Client
	userAgent   string
	maxBytes    int64
	robots      *util.RobotsChecker
	limiter     *worker.Limiter
	relevance   bool
	credibility *CredibilityClassifier
}

// WebConfig configures the web researcher
type WebConfig struct {
	SourceURLs        []string
	Timeout           time.Duration
	UserAgent         string
	MaxBodyBytes      int64
	RequestsPerSecond float64
	BurstSize         int
	HTTPProxy         string
	HTTPSProxy        string
	NoProxy           string

	// Domain lists overriding the built-in credibility tiers
	HighDomains   []string
	MediumDomains []string

	// FilterByTheme drops extracted candidates that do not mention
	// the theme alongside product and pain markers
	FilterByTheme bool
}

// NewWebResearcher creates a web researcher
func NewWebResearcher(config WebConfig) *WebResearcher {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := config.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "ideascout/0.1 (+https://github.com/ppiankov/ideascout)"
	}

	return &WebResearcher{
		sourceURLs: config.SourceURLs,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:   userAgent,
		maxBytes:    maxBytes,
		robots:      util.NewRobotsChecker(userAgent, timeout),
		limiter:     worker.NewLimiter(rps, config.BurstSize),
		relevance:   config.FilterByTheme,
		credibility: NewCredibilityClassifier(config.HighDomains, config.MediumDomains),
	}
}

// Fetch implements Researcher. A failing source URL is skipped rather
// than aborting the whole fetch; the error is returned only when no
// source yielded anything.
func (r *WebResearcher) Fetch(ctx context.Context, theme, variant string) ([]model.IdeaCandidate, error) {
	var all []model.IdeaCandidate
	var firstErr error

	for _, sourceURL := range r.sourceURLs {
		candidates, err := r.fetchURL(ctx, sourceURL, theme)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		all = append(all, candidates...)
	}

	if len(all) == 0 && firstErr != nil {
		return nil, fmt.Errorf("fetch sources: %w", firstErr)
	}
	return all, nil
}

func (r *WebResearcher) fetchURL(ctx context.Context, sourceURL, theme string) ([]model.IdeaCandidate, error) {
	if !r.robots.IsAllowed(ctx, sourceURL) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", sourceURL)
	}
	if err := r.limiter.Wait(ctx, sourceURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", sourceURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", sourceURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	sourceDate := parseDateHeader(resp.Header.Get("Date"))
	credibility := r.credibility.Classify(sourceURL)

	candidates := ExtractCandidates(string(body))
	var kept []model.IdeaCandidate
	for _, candidate := range candidates {
		candidate.SourceURLs = []string{sourceURL}
		candidate.SourceDate = sourceDate
		candidate.SourceCredibility = credibility
		if r.relevance && !ThemeRelevant(&candidate, theme) {
			continue
		}
		kept = append(kept, candidate)
	}

	return kept, nil
}

// ExtractCandidates parses HTML and extracts idea candidates from list
// items and bullet-prefixed text lines
func ExtractCandidates(htmlContent string) []model.IdeaCandidate {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var candidates []model.IdeaCandidate
	seen := make(map[string]bool)

	add := func(line string) {
		candidate := ParseBulletLine(line)
		if candidate == nil {
			return
		}
		title := candidate.NormalizedTitle()
		if title == "" || seen[title] {
			return
		}
		seen[title] = true
		candidates = append(candidates, *candidate)
	}

	// List items are treated as bullets regardless of marker
	for _, item := range listItems(doc) {
		add("- " + item)
	}

	// Plain text lines that carry an explicit bullet marker
	for _, line := range strings.Split(visibleText(doc), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "•") {
			add(trimmed)
		}
	}

	return candidates
}

// listItems collects the text content of every <li> element
func listItems(doc *html.Node) []string {
	var items []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			text := strings.TrimSpace(nodeText(n))
			if text != "" {
				items = append(items, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return items
}

// visibleText extracts text nodes, skipping scripts and styles, keeping
// line structure so bullet markers survive
func visibleText(doc *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "br", "div", "li":
				buf.WriteString("\n")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String()
}

func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func parseDateHeader(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC1123, value)
	if err != nil {
		return nil
	}
	return &t
}
