package extract

import (
	"testing"

	"gharkhoj/models"
)

func TestExtractBedrooms(t *testing.T) {
	cases := []struct {
		in   string
		want int
		nil_ bool
	}{
		{"Spacious 3 BHK in Baner", 3, false},
		{"2 bedroom apartment", 2, false},
		{"4BHK villa", 4, false},
		{"studio apartment", 0, true},
	}

	for _, c := range cases {
		got := ExtractBedrooms(c.in)
		if c.nil_ {
			if got != nil {
				t.Errorf("ExtractBedrooms(%q) = %d, want nil", c.in, *got)
			}
			continue
		}
		if got == nil || *got != c.want {
			t.Errorf("ExtractBedrooms(%q) = %v, want %d", c.in, got, c.want)
		}
	}
}

func TestExtractArea(t *testing.T) {
	if got := ExtractArea("carpet area 1200 sqft"); got == nil || *got != 1200 {
		t.Fatalf("expected 1200, got %v", got)
	}
	if got := ExtractArea("1450 sq. ft built up"); got == nil || *got != 1450 {
		t.Fatalf("expected 1450, got %v", got)
	}
	// square metres convert to sqft
	if got := ExtractArea("area 100 sqm"); got == nil || *got != 1076 {
		t.Fatalf("expected 1076, got %v", got)
	}
	if got := ExtractArea("prime location"); got != nil {
		t.Fatalf("expected nil, got %d", *got)
	}
}

func TestExtractPropertyType(t *testing.T) {
	if got := ExtractPropertyType("Luxury Apartment in Pune"); got != "Apartment" {
		t.Fatalf("expected Apartment, got %q", got)
	}
	if got := ExtractPropertyType("independent villa with garden"); got != "Villa" {
		t.Fatalf("expected Villa, got %q", got)
	}
	if got := ExtractPropertyType("great deal"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

// Portal spec tables collapse into whitespace-free lumps once the DOM text
// is concatenated; ParseSnippet has to read fields straight out of that.
func TestParseSnippetLump(t *testing.T) {
	raw := "Carpet Area 300 sqft Status Ready to Move Floor 4 out of 4 " +
		"Transaction Type Resale Furnishing Unfurnished Bathrooms 2 Balcony 1"

	fields := ParseSnippet(raw, "Pune")

	if fields.AreaSqFt == nil || *fields.AreaSqFt != 300 {
		t.Fatalf("expected area 300, got %v", fields.AreaSqFt)
	}
	if fields.Status == nil || *fields.Status != models.StatusReadyToMove {
		t.Fatalf("expected Ready to Move, got %v", fields.Status)
	}
	if fields.Floor == nil || *fields.Floor != "4 out of 4" {
		t.Fatalf("expected floor 4 out of 4, got %v", fields.Floor)
	}
	if fields.Transaction == nil || *fields.Transaction != models.TransactionResale {
		t.Fatalf("expected Resale, got %v", fields.Transaction)
	}
	if fields.Furnishing == nil || *fields.Furnishing != models.Unfurnished {
		t.Fatalf("expected Unfurnished, got %v", fields.Furnishing)
	}
	if fields.Bathrooms == nil || *fields.Bathrooms != 2 {
		t.Fatalf("expected 2 bathrooms, got %v", fields.Bathrooms)
	}
	if fields.BalconyCount == nil || *fields.BalconyCount != 1 {
		t.Fatalf("expected 1 balcony, got %v", fields.BalconyCount)
	}
	if fields.Location != "Pune" {
		t.Fatalf("expected default location Pune, got %q", fields.Location)
	}
}

func TestParseSnippetAddressLabel(t *testing.T) {
	raw := "Address: Baner Road, Pune\nCarpet Area 850 sqft Status Under Construction"

	fields := ParseSnippet(raw, "Unknown")

	if fields.Location != "Baner Road, Pune" {
		t.Fatalf("expected labeled address, got %q", fields.Location)
	}
	if fields.Status == nil || *fields.Status != models.StatusUnderConstruction {
		t.Fatalf("expected Under Construction, got %v", fields.Status)
	}
	if fields.AreaSqFt == nil || *fields.AreaSqFt != 850 {
		t.Fatalf("expected area 850, got %v", fields.AreaSqFt)
	}
}

// "unfurnished" contains "furnished"; the classifier must not report a
// furnished flat for an unfurnished one.
func TestParseSnippetUnfurnishedPrecedence(t *testing.T) {
	fields := ParseSnippet("Furnishing Unfurnished", "")
	if fields.Furnishing == nil || *fields.Furnishing != models.Unfurnished {
		t.Fatalf("expected Unfurnished, got %v", fields.Furnishing)
	}

	fields = ParseSnippet("Furnishing Semi Furnished", "")
	if fields.Furnishing == nil || *fields.Furnishing != models.Furnished {
		t.Fatalf("expected Furnished, got %v", fields.Furnishing)
	}
}

func TestParseFreeText(t *testing.T) {
	fields := ParseFreeText(
		"3 BHK Apartment in Baner",
		"Spacious 1200 sqft flat priced at 95 lakh with gym and swimming pool",
		"Pune",
	)

	if fields.Bedrooms == nil || *fields.Bedrooms != 3 {
		t.Fatalf("expected 3 bedrooms, got %v", fields.Bedrooms)
	}
	if fields.AreaSqFt == nil || *fields.AreaSqFt != 1200 {
		t.Fatalf("expected 1200 sqft, got %v", fields.AreaSqFt)
	}
	if fields.Price != "₹95.00 Lakh" {
		t.Fatalf("expected ₹95.00 Lakh, got %q", fields.Price)
	}
	if fields.PropertyType != "Apartment" {
		t.Fatalf("expected Apartment, got %q", fields.PropertyType)
	}
	if fields.Location != "Pune" {
		t.Fatalf("expected Pune, got %q", fields.Location)
	}
	if len(fields.Amenities) != 2 || fields.Amenities[0] != "Gym" || fields.Amenities[1] != "Swimming Pool" {
		t.Fatalf("unexpected amenities %v", fields.Amenities)
	}
}
