package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gharkhoj/extract"
	"gharkhoj/models"
)

// Schema defaults. Every record leaves the pipeline with all downstream keys
// populated; a consumer never sees a null bedroom count or missing image.
const (
	defaultBedrooms  = 2
	defaultBathrooms = 2
	defaultAreaSqFt  = 1000
	placeholderImage = "https://placehold.co/600x400?text=Property+Image"
	placeholderLink  = "#"
)

type Assembler struct {
	maxRecords int
}

func NewAssembler(maxRecords int) *Assembler {
	if maxRecords <= 0 {
		maxRecords = 5
	}
	return &Assembler{maxRecords: maxRecords}
}

// Assemble finalizes drafts into the outcome, preserving acquisition order
// and capping at maxRecords. Records is never nil.
func (a *Assembler) Assemble(query string, drafts []Draft) *models.SearchOutcome {
	outcome := &models.SearchOutcome{
		Query:   query,
		Records: []models.PropertyRecord{},
	}

	for _, draft := range drafts {
		if len(outcome.Records) >= a.maxRecords {
			break
		}
		outcome.Records = append(outcome.Records, a.build(draft))
	}

	return outcome
}

func (a *Assembler) build(draft Draft) models.PropertyRecord {
	fields := draft.Fields

	if fields.Bedrooms == nil {
		fields.Bedrooms = intPtr(defaultBedrooms)
	}
	if fields.Bathrooms == nil {
		fields.Bathrooms = intPtr(defaultBathrooms)
	}
	if fields.AreaSqFt == nil {
		fields.AreaSqFt = intPtr(defaultAreaSqFt)
	}
	if fields.PropertyType == "" {
		fields.PropertyType = extract.DefaultPropertyType
	}
	if fields.Price == "" {
		fields.Price = extract.PriceNotAvailable
	}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = syntheticTitle(fields)
	}

	link := draft.Candidate.URL
	if link == "" {
		link = placeholderLink
	}

	return models.PropertyRecord{
		ID:              uuid.NewString(),
		Title:           title,
		SourceDomain:    draft.Candidate.SourceDomain,
		URL:             link,
		ExtractedFields: fields,
		Description:     extract.Compose(fields),
		ImageURL:        placeholderImage,
		ScrapedAt:       time.Now(),
	}
}

// syntheticTitle covers pages whose <title> was empty or all boilerplate.
func syntheticTitle(f models.ExtractedFields) string {
	propertyType := extract.TitleCase(f.PropertyType)
	if f.Bedrooms != nil && f.Location != "" {
		return fmt.Sprintf("%d BHK %s in %s", *f.Bedrooms, propertyType, f.Location)
	}
	if f.Location != "" {
		return fmt.Sprintf("%s in %s", propertyType, f.Location)
	}
	return propertyType + " Property"
}

func intPtr(v int) *int {
	return &v
}
