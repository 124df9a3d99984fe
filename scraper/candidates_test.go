package scraper

import (
	"testing"

	"gharkhoj/models"
)

func TestDomainOf(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.magicbricks.com/p/123", "magicbricks.com"},
		{"https://housing.com/in/buy/x", "housing.com"},
		{"https://WWW.99ACRES.COM/prop", "99acres.com"},
		{"not a url", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := DomainOf(c.in); got != c.want {
			t.Errorf("DomainOf(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsDetailURL(t *testing.T) {
	if IsDetailURL("https://magicbricks.com/property-for-sale/search?city=pune") {
		t.Errorf("search URL should not be a detail page")
	}
	if IsDetailURL("https://housing.com/in/buy/listings-in-pune") {
		t.Errorf("listings URL should not be a detail page")
	}
	if !IsDetailURL("https://magicbricks.com/3-bhk-flat-baner-pdpid-123") {
		t.Errorf("detail URL rejected")
	}
}

func TestFilterCandidates(t *testing.T) {
	candidates := []models.ListingCandidate{
		{URL: "https://www.magicbricks.com/prop-1", SourceDomain: "magicbricks.com"},
		{URL: "https://www.magicbricks.com/prop-1", SourceDomain: "magicbricks.com"}, // dup
		{URL: "https://evil.example/prop-2", SourceDomain: "evil.example"},
		{URL: "https://housing.com/search?q=pune", SourceDomain: "housing.com"},
		{URL: "https://pune.housing.com/prop-3", SourceDomain: "pune.housing.com"},
		{URL: "", SourceDomain: "magicbricks.com"},
	}

	got := FilterCandidates(candidates, []string{"magicbricks.com", "housing.com"})

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(got), got)
	}
	if got[0].URL != "https://www.magicbricks.com/prop-1" {
		t.Errorf("unexpected first candidate %q", got[0].URL)
	}
	// subdomain of an allowed domain passes
	if got[1].URL != "https://pune.housing.com/prop-3" {
		t.Errorf("unexpected second candidate %q", got[1].URL)
	}
}

// Non-preferred domains are dropped, not demoted: the structured tier must
// come back empty when nothing preferred matched.
func TestRestrictToPreferred(t *testing.T) {
	candidates := []models.ListingCandidate{
		{URL: "a", SourceDomain: "housing.com"},
		{URL: "b", SourceDomain: "magicbricks.com"},
		{URL: "c", SourceDomain: "99acres.com"},
		{URL: "d", SourceDomain: "magicbricks.com"},
	}

	got := RestrictToPreferred(candidates, []string{"magicbricks.com", "99acres.com"})

	wantOrder := []string{"b", "d", "c"}
	if len(got) != len(wantOrder) {
		t.Fatalf("expected %d candidates, got %v", len(wantOrder), got)
	}
	for i, url := range wantOrder {
		if got[i].URL != url {
			t.Fatalf("position %d: expected %q, got %q (full: %v)", i, url, got[i].URL, got)
		}
	}
}

func TestRestrictToPreferredNoneMatch(t *testing.T) {
	candidates := []models.ListingCandidate{
		{URL: "a", SourceDomain: "housing.com"},
	}
	got := RestrictToPreferred(candidates, []string{"magicbricks.com"})
	if len(got) != 0 {
		t.Fatalf("expected no survivors, got %v", got)
	}
}

func TestRestrictToPreferredNoPreferred(t *testing.T) {
	candidates := []models.ListingCandidate{
		{URL: "a", SourceDomain: "housing.com"},
		{URL: "b", SourceDomain: "magicbricks.com"},
	}
	got := RestrictToPreferred(candidates, nil)
	if len(got) != 2 || got[0].URL != "a" || got[1].URL != "b" {
		t.Fatalf("expected discovery order untouched, got %v", got)
	}
}
