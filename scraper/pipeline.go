package scraper

import (
	"context"
	"errors"
	"log"
	"strings"

	"gharkhoj/config"
	"gharkhoj/extract"
	"gharkhoj/models"
)

// Draft is one candidate after extraction, before assembly fills schema
// defaults.
type Draft struct {
	Candidate      models.ListingCandidate
	Title          string
	Fields         models.ExtractedFields
	RawDescription string
	Fallback       bool // built from the search snippet, page never parsed
}

// Pipeline turns candidates into drafts. Page extraction is best-effort:
// a navigation or parse failure downgrades the candidate to a snippet-only
// draft rather than dropping it, as long as the candidate carries any text
// at all. Only two things stop the batch: context cancellation and the
// browser failing to start.
type Pipeline struct {
	cfg     *config.Config
	session *Session
}

func NewPipeline(cfg *config.Config, session *Session) *Pipeline {
	return &Pipeline{cfg: cfg, session: session}
}

// Process extracts one candidate. The bool is false when the candidate
// yielded nothing usable and must be skipped; a non-nil error means the
// batch itself cannot continue (cancellation or no browser).
func (p *Pipeline) Process(ctx context.Context, cand models.ListingCandidate, defaultLocation string) (Draft, bool, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, false, err
	}

	page, err := p.session.OpenPage(cand.URL)
	if err != nil {
		if errors.Is(err, ErrBrowserStart) {
			return Draft{}, false, err
		}
		log.Printf("Page load failed for %s: %v", cand.URL, err)
		draft, ok := p.fallbackDraft(cand, defaultLocation)
		return draft, ok, nil
	}
	defer page.Close()

	if site := p.siteForDomain(cand.SourceDomain); site != nil && len(site.ExpandSelectors) > 0 {
		p.session.expandCollapsedSections(page, site.ExpandSelectors)
	}

	doc, err := p.session.Document(page)
	if err != nil {
		log.Printf("Snapshot failed for %s: %v", cand.URL, err)
		draft, ok := p.fallbackDraft(cand, defaultLocation)
		return draft, ok, nil
	}

	pageFields := extract.FromDocument(cand.SourceDomain, doc, defaultLocation)

	title := pageFields.Title
	if title == "" {
		title = cand.Title
	}

	return Draft{
		Candidate:      cand,
		Title:          title,
		Fields:         pageFields.Fields,
		RawDescription: pageFields.RawDescription,
	}, true, nil
}

// fallbackDraft builds a draft from acquisition-time text alone.
func (p *Pipeline) fallbackDraft(cand models.ListingCandidate, defaultLocation string) (Draft, bool) {
	if strings.TrimSpace(cand.Title) == "" && strings.TrimSpace(cand.Snippet) == "" {
		return Draft{}, false
	}

	log.Printf("Falling back to snippet extraction for %s", cand.URL)
	return Draft{
		Candidate:      cand,
		Title:          cand.Title,
		Fields:         extract.ParseFreeText(cand.Title, cand.Snippet, defaultLocation),
		RawDescription: cand.Snippet,
		Fallback:       true,
	}, true
}

func (p *Pipeline) siteForDomain(domain string) *config.SiteConfig {
	for _, site := range p.cfg.Sites {
		if site.Domain == domain || strings.HasSuffix(domain, "."+site.Domain) {
			return site
		}
	}
	return nil
}
