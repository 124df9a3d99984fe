package scraper

import (
	"strings"
	"testing"

	"gharkhoj/models"
)

func intp(v int) *int { return &v }

func TestAssembleDefaults(t *testing.T) {
	assembler := NewAssembler(5)

	outcome := assembler.Assemble("2 bhk in pune", []Draft{
		{Candidate: models.ListingCandidate{SourceDomain: "magicbricks.com"}},
	})

	if len(outcome.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(outcome.Records))
	}
	record := outcome.Records[0]

	if record.Bedrooms == nil || *record.Bedrooms != 2 {
		t.Errorf("expected default 2 bedrooms, got %v", record.Bedrooms)
	}
	if record.Bathrooms == nil || *record.Bathrooms != 2 {
		t.Errorf("expected default 2 bathrooms, got %v", record.Bathrooms)
	}
	if record.AreaSqFt == nil || *record.AreaSqFt != 1000 {
		t.Errorf("expected default 1000 sqft, got %v", record.AreaSqFt)
	}
	if record.PropertyType != "Residential" {
		t.Errorf("expected Residential, got %q", record.PropertyType)
	}
	if record.Price != "Price not available" {
		t.Errorf("expected price literal, got %q", record.Price)
	}
	if record.ImageURL != "https://placehold.co/600x400?text=Property+Image" {
		t.Errorf("unexpected image URL %q", record.ImageURL)
	}
	if record.URL != "#" {
		t.Errorf("expected placeholder link, got %q", record.URL)
	}
	if record.ID == "" {
		t.Errorf("expected a generated id")
	}
	if record.Description == "" {
		t.Errorf("expected a composed description")
	}
	if record.ScrapedAt.IsZero() {
		t.Errorf("expected scrape timestamp")
	}
}

func TestAssembleKeepsRealValues(t *testing.T) {
	assembler := NewAssembler(5)

	outcome := assembler.Assemble("q", []Draft{{
		Candidate: models.ListingCandidate{
			URL:          "https://www.magicbricks.com/prop-1",
			SourceDomain: "magicbricks.com",
		},
		Title: "3 Bhk Apartment In Baner, Pune",
		Fields: models.ExtractedFields{
			Price:        "₹95.00 Lakh",
			Bedrooms:     intp(3),
			AreaSqFt:     intp(1200),
			PropertyType: "Apartment",
			Location:     "Baner, Pune",
		},
	}})

	record := outcome.Records[0]
	if record.Title != "3 Bhk Apartment In Baner, Pune" {
		t.Errorf("unexpected title %q", record.Title)
	}
	if record.URL != "https://www.magicbricks.com/prop-1" {
		t.Errorf("unexpected URL %q", record.URL)
	}
	if *record.Bedrooms != 3 || *record.AreaSqFt != 1200 {
		t.Errorf("real values overwritten: %d bedrooms, %d sqft", *record.Bedrooms, *record.AreaSqFt)
	}
	if record.Price != "₹95.00 Lakh" {
		t.Errorf("unexpected price %q", record.Price)
	}
}

func TestAssembleSyntheticTitle(t *testing.T) {
	assembler := NewAssembler(5)

	outcome := assembler.Assemble("q", []Draft{{
		Fields: models.ExtractedFields{
			Bedrooms:     intp(3),
			PropertyType: "apartment",
			Location:     "Pune",
		},
	}})

	if got := outcome.Records[0].Title; got != "3 BHK Apartment in Pune" {
		t.Fatalf("unexpected synthetic title %q", got)
	}

	outcome = assembler.Assemble("q", []Draft{{}})
	if got := outcome.Records[0].Title; got != "Residential Property" {
		t.Fatalf("unexpected synthetic title %q", got)
	}
}

func TestAssembleCapAndOrder(t *testing.T) {
	assembler := NewAssembler(2)

	var drafts []Draft
	for _, loc := range []string{"First", "Second", "Third"} {
		drafts = append(drafts, Draft{Fields: models.ExtractedFields{Location: loc}})
	}

	outcome := assembler.Assemble("q", drafts)

	if len(outcome.Records) != 2 {
		t.Fatalf("expected cap at 2, got %d", len(outcome.Records))
	}
	if outcome.Records[0].Location != "First" || outcome.Records[1].Location != "Second" {
		t.Fatalf("acquisition order not preserved: %v", outcome.Records)
	}
}

func TestAssembleEmptyDrafts(t *testing.T) {
	assembler := NewAssembler(0) // falls back to the default cap

	outcome := assembler.Assemble("q", nil)
	if outcome.Records == nil {
		t.Fatalf("Records must never be nil")
	}
	if len(outcome.Records) != 0 {
		t.Fatalf("expected empty records, got %d", len(outcome.Records))
	}
	if outcome.Query != "q" {
		t.Fatalf("unexpected query %q", outcome.Query)
	}
}

func TestAssembleDescriptionOmitsLiteral(t *testing.T) {
	assembler := NewAssembler(5)
	outcome := assembler.Assemble("q", []Draft{{}})
	if strings.Contains(outcome.Records[0].Description, "Price not available") {
		t.Fatalf("description leaked price literal: %q", outcome.Records[0].Description)
	}
}
