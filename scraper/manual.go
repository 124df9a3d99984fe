package scraper

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"gharkhoj/config"
	"gharkhoj/extract"
	"gharkhoj/models"
)

// ManualSearcher drives portal search pages directly when the structured
// tier comes back empty. One portal at a time, links lifted off result
// cards, respecting each site's configured link cap and rate limit.
type ManualSearcher struct {
	cfg     *config.Config
	session *Session
}

func NewManualSearcher(cfg *config.Config, session *Session) *ManualSearcher {
	return &ManualSearcher{cfg: cfg, session: session}
}

// Collect gathers candidates across all configured portals, preferred
// domains first. Per-site failures are logged and skipped; a browser that
// cannot start at all aborts the tier.
func (m *ManualSearcher) Collect(ctx context.Context, query string) ([]models.ListingCandidate, error) {
	var candidates []models.ListingCandidate

	for _, site := range m.orderedSites() {
		if err := ctx.Err(); err != nil {
			break
		}

		siteCandidates, err := m.collectSite(site, query)
		if err != nil {
			if errors.Is(err, ErrBrowserStart) {
				return candidates, err
			}
			log.Printf("Manual search failed for %s: %v", site.ID, err)
			continue
		}

		candidates = append(candidates, siteCandidates...)

		if m.cfg.Browser.Pacing && site.RateLimitMS > 0 {
			time.Sleep(time.Duration(site.RateLimitMS) * time.Millisecond)
		}
	}

	return candidates, nil
}

func (m *ManualSearcher) collectSite(site *config.SiteConfig, query string) ([]models.ListingCandidate, error) {
	searchURL := buildSearchURL(site.SearchURL, query)
	log.Printf("Manual search on %s: %s", site.ID, searchURL)

	page, err := m.session.OpenPage(searchURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if site.WaitSelector != "" {
		_, err := page.WaitForSelector(site.WaitSelector, playwright.PageWaitForSelectorOptions{
			Timeout: playwright.Float(10000),
		})
		if err != nil {
			log.Printf("Wait selector %q never appeared on %s (continuing)", site.WaitSelector, site.ID)
		}
	}

	if site.ScrollOnLoad {
		m.session.scrollToBottom(page)
	}

	doc, err := m.session.Document(page)
	if err != nil {
		return nil, err
	}

	return m.candidatesFromResults(site, doc), nil
}

// candidatesFromResults walks result cards and lifts the detail link plus
// the card's own text, so a later page failure still has a snippet to parse.
func (m *ManualSearcher) candidatesFromResults(site *config.SiteConfig, doc *goquery.Document) []models.ListingCandidate {
	var candidates []models.ListingCandidate
	seen := make(map[string]bool)

	doc.Find(site.CardSelector).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find(site.LinkSelector).First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}

		absolute := absoluteURL(site.Domain, href)
		if absolute == "" || seen[absolute] || !IsDetailURL(absolute) {
			return true
		}
		seen[absolute] = true

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = strings.TrimSpace(card.Find("h2, h3").First().Text())
		}

		candidates = append(candidates, models.ListingCandidate{
			URL:          absolute,
			SourceDomain: site.Domain,
			Title:        extract.SanitizeTitle(title),
			Snippet:      extract.SanitizeSnippet(card.Text()),
		})

		return len(candidates) < site.MaxLinks
	})

	log.Printf("Manual search on %s: %d candidate links", site.ID, len(candidates))
	return candidates
}

func (m *ManualSearcher) orderedSites() []*config.SiteConfig {
	var ordered []*config.SiteConfig
	taken := make(map[string]bool)

	for _, domain := range m.cfg.Search.PreferredDomains {
		for id, site := range m.cfg.Sites {
			if !taken[id] && site.Domain == domain {
				ordered = append(ordered, site)
				taken[id] = true
			}
		}
	}
	for id, site := range m.cfg.Sites {
		if !taken[id] {
			ordered = append(ordered, site)
		}
	}
	return ordered
}

// buildSearchURL fills the {query} and {city} placeholders. Path-style
// portals take the hyphenated query; query-param portals take just the city.
func buildSearchURL(template, query string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), " ", "-")
	out := strings.ReplaceAll(template, "{query}", url.PathEscape(slug))
	out = strings.ReplaceAll(out, "{city}", url.QueryEscape(CityFromQuery(query)))
	return out
}

// CityFromQuery pulls the trailing location out of a natural-language query
// ("2 bhk flat in pune" -> "Pune"). Falls back to the last word.
func CityFromQuery(query string) string {
	normalized := extract.NormalizeText(query)
	if normalized == "" {
		return ""
	}

	if idx := strings.LastIndex(normalized, " in "); idx >= 0 {
		return extract.TitleCase(strings.TrimSpace(normalized[idx+4:]))
	}

	words := strings.Fields(normalized)
	return extract.TitleCase(words[len(words)-1])
}

func absoluteURL(domain, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return "https://www." + domain + href
}
