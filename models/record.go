package models

import "time"

// PropertyRecord is the final output unit for one processed URL. Immutable
// after assembly; the JSON keys are the contract with downstream consumers
// (advisory prompts, persistence) and must always be present, so the
// assembler fills schema defaults before a record leaves the pipeline.
type PropertyRecord struct {
	ID           string `json:"id"`
	Title        string `json:"name"`
	SourceDomain string `json:"source_domain"`
	URL          string `json:"link"`

	ExtractedFields

	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`

	ScrapedAt time.Time `json:"scraped_at"`
}

// SearchOutcome is the result of one query run through the pipeline.
// Records is ordered by URL discovery and may be empty, never nil once
// assembly has run.
type SearchOutcome struct {
	Query   string           `json:"query"`
	Records []PropertyRecord `json:"records"`
}
