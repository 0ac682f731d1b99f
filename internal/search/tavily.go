package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Result is the summarized outcome of one web search
type Result struct {
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
}

// Searcher performs the four company research searches the cache fronts
type Searcher interface {
	CompanyOverview(ctx context.Context, company string) (*Result, error)
	CompanyCulture(ctx context.Context, company string) (*Result, error)
	RecentNews(ctx context.Context, company string, days int) (*Result, error)
	PositionInsights(ctx context.Context, company, position string) (*Result, error)
}

// Config holds Tavily search API configuration
type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	TimeoutMS  int
}

// DefaultConfig returns the default search configuration
func DefaultConfig() *Config {
	return &Config{
		APIKey:     os.Getenv("TAVILY_API_KEY"),
		BaseURL:    "https://api.tavily.com",
		MaxResults: 5,
		TimeoutMS:  15000,
	}
}

// IsEnabled returns true if the search API is configured
func (c *Config) IsEnabled() bool {
	return c.APIKey != ""
}

// TavilyClient searches the web through the Tavily API
type TavilyClient struct {
	config *Config
	client *http.Client
}

// NewTavilyClient creates a Tavily-backed searcher
func NewTavilyClient(cfg *Config) *TavilyClient {
	return &TavilyClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// CompanyOverview searches for company mission, products and market position
func (t *TavilyClient) CompanyOverview(ctx context.Context, company string) (*Result, error) {
	query := fmt.Sprintf("%s company overview mission values products", company)
	return t.search(ctx, query, "advanced")
}

// CompanyCulture searches for culture and working-environment signals
func (t *TavilyClient) CompanyCulture(ctx context.Context, company string) (*Result, error) {
	query := fmt.Sprintf("%s company culture values work environment employee reviews", company)
	return t.search(ctx, query, "advanced")
}

// RecentNews searches for news from roughly the last given number of days
func (t *TavilyClient) RecentNews(ctx context.Context, company string, days int) (*Result, error) {
	query := fmt.Sprintf("%s recent news updates announcements", company)
	return t.searchWithDays(ctx, query, "basic", days)
}

// PositionInsights searches for role requirements and interview signals
func (t *TavilyClient) PositionInsights(ctx context.Context, company, position string) (*Result, error) {
	query := fmt.Sprintf("%s at %s job requirements responsibilities interview", position, company)
	return t.search(ctx, query, "advanced")
}

func (t *TavilyClient) search(ctx context.Context, query, depth string) (*Result, error) {
	return t.searchWithDays(ctx, query, depth, 0)
}

func (t *TavilyClient) searchWithDays(ctx context.Context, query, depth string, days int) (*Result, error) {
	reqBody := map[string]interface{}{
		"api_key":        t.config.APIKey,
		"query":          query,
		"search_depth":   depth,
		"max_results":    t.config.MaxResults,
		"include_answer": true,
	}
	if days > 0 {
		reqBody["days"] = days
		reqBody["topic"] = "news"
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.config.BaseURL+"/search", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search returned status %d", resp.StatusCode)
	}

	var tavilyResp struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tavilyResp); err != nil {
		return nil, err
	}

	result := &Result{Summary: tavilyResp.Answer}
	var snippets []string
	for _, r := range tavilyResp.Results {
		result.Sources = append(result.Sources, r.URL)
		if r.Content != "" {
			snippets = append(snippets, fmt.Sprintf("%s: %s", r.Title, r.Content))
		}
	}

	// Some queries come back without a synthesized answer; fall back to
	// the raw snippets so the caller still gets usable text.
	if result.Summary == "" {
		result.Summary = strings.Join(snippets, "\n\n")
	}

	return result, nil
}
