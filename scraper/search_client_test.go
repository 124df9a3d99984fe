package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gharkhoj/config"
)

func TestTavilyClientSearch(t *testing.T) {
	var gotReq tavilyRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{
					"url":     "https://www.magicbricks.com/prop-1",
					"title":   "3 BHK flat for Sale in Baner - MagicBricks",
					"content": "Spacious 1200 sqft flat at 95 lakh.",
				},
				{
					"url":   "",
					"title": "dropped, no url",
				},
			},
		})
	}))
	defer server.Close()

	cfg := &config.SearchConfig{
		APIKey:         "test-key",
		Endpoint:       server.URL,
		MaxResults:     4,
		AllowedDomains: []string{"magicbricks.com"},
	}
	client := NewTavilyClient(cfg, server.Client())

	candidates, err := client.Search(context.Background(), "2 bhk in pune")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotReq.APIKey != "test-key" {
		t.Errorf("api key not forwarded, got %q", gotReq.APIKey)
	}
	if gotReq.Query != "2 bhk in pune property price details" {
		t.Errorf("query not augmented, got %q", gotReq.Query)
	}
	if gotReq.SearchDepth != "advanced" {
		t.Errorf("unexpected search depth %q", gotReq.SearchDepth)
	}
	if gotReq.MaxResults != 4 {
		t.Errorf("unexpected max results %d", gotReq.MaxResults)
	}
	if len(gotReq.IncludeDomains) != 1 || gotReq.IncludeDomains[0] != "magicbricks.com" {
		t.Errorf("unexpected include domains %v", gotReq.IncludeDomains)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].SourceDomain != "magicbricks.com" {
		t.Errorf("unexpected domain %q", candidates[0].SourceDomain)
	}
	if candidates[0].Title != "3 Bhk Flat In Baner" {
		t.Errorf("unexpected title %q", candidates[0].Title)
	}
	if candidates[0].Snippet != "Spacious 1200 sqft flat at 95 lakh." {
		t.Errorf("unexpected snippet %q", candidates[0].Snippet)
	}
}

func TestTavilyClientMissingKey(t *testing.T) {
	client := NewTavilyClient(&config.SearchConfig{}, http.DefaultClient)
	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestTavilyClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTavilyClient(&config.SearchConfig{APIKey: "k", Endpoint: server.URL}, server.Client())
	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatalf("expected error on non-200 response")
	}
}
