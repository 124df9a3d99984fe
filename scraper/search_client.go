package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"gharkhoj/config"
	"gharkhoj/extract"
	"gharkhoj/models"
)

// SearchClient is the structured acquisition tier: a web-search API that
// returns listing URLs with titles and content snippets.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]models.ListingCandidate, error)
}

type TavilyClient struct {
	cfg    *config.SearchConfig
	client *http.Client
}

func NewTavilyClient(cfg *config.SearchConfig, client *http.Client) *TavilyClient {
	return &TavilyClient{cfg: cfg, client: client}
}

type tavilyRequest struct {
	APIKey         string   `json:"api_key"`
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	MaxResults     int      `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string) ([]models.ListingCandidate, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("search API key not configured")
	}

	reqBody := tavilyRequest{
		APIKey:         c.cfg.APIKey,
		Query:          query + " property price details",
		SearchDepth:    "advanced",
		IncludeDomains: c.cfg.AllowedDomains,
		MaxResults:     c.cfg.MaxResults,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search API error %d: %s", resp.StatusCode, string(respBody))
	}

	var result tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	var candidates []models.ListingCandidate
	for _, r := range result.Results {
		if r.URL == "" {
			continue
		}
		candidates = append(candidates, models.ListingCandidate{
			URL:          r.URL,
			SourceDomain: DomainOf(r.URL),
			Title:        extract.SanitizeTitle(r.Title),
			Snippet:      extract.SanitizeSnippet(r.Content),
		})
	}

	log.Printf("Search API: %d results for %q", len(candidates), query)
	return candidates, nil
}
