package scraper

import (
	"net/url"
	"strings"

	"gharkhoj/models"
)

// Index-page markers. A URL carrying one of these is a search results page,
// not a property detail page, and parsing it yields garbage fields.
var indexPageMarkers = []string{"search", "listings", "results"}

func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

func IsDetailURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, marker := range indexPageMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}

func domainAllowed(domain string, allowed []string) bool {
	for _, a := range allowed {
		if domain == a || strings.HasSuffix(domain, "."+a) {
			return true
		}
	}
	return false
}

// FilterCandidates keeps detail-page URLs on allowed domains, deduplicated by
// URL, preserving discovery order.
func FilterCandidates(candidates []models.ListingCandidate, allowed []string) []models.ListingCandidate {
	seen := make(map[string]bool)
	var out []models.ListingCandidate
	for _, c := range candidates {
		if c.URL == "" || seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		if !domainAllowed(c.SourceDomain, allowed) {
			continue
		}
		if !IsDetailURL(c.URL) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// RestrictToPreferred keeps only candidates from preferred domains, grouped
// in preference order. Everything else is dropped so a structured result
// with no preferred-domain hit comes back empty and the caller falls
// through to the manual tier. An empty preferred list keeps all candidates.
func RestrictToPreferred(candidates []models.ListingCandidate, preferred []string) []models.ListingCandidate {
	if len(preferred) == 0 {
		return candidates
	}

	var kept []models.ListingCandidate
	taken := make(map[int]bool)

	for _, domain := range preferred {
		for i, c := range candidates {
			if !taken[i] && (c.SourceDomain == domain || strings.HasSuffix(c.SourceDomain, "."+domain)) {
				kept = append(kept, c)
				taken[i] = true
			}
		}
	}
	return kept
}
