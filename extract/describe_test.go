package extract

import (
	"strings"
	"testing"

	"gharkhoj/models"
)

func intp(v int) *int { return &v }

func TestComposeMinimal(t *testing.T) {
	got := Compose(models.ExtractedFields{})
	if got != "This is a residential." {
		t.Fatalf("expected minimal sentence, got %q", got)
	}

	// placeholder locations don't count as known
	got = Compose(models.ExtractedFields{Location: "Unknown"})
	if got != "This is a residential." {
		t.Fatalf("expected minimal sentence for Unknown location, got %q", got)
	}
}

func TestComposeFull(t *testing.T) {
	status := models.StatusReadyToMove
	transaction := models.TransactionResale
	floor := "4 out of 4"

	fields := models.ExtractedFields{
		Price:        "₹95.00 Lakh",
		Bedrooms:     intp(3),
		Bathrooms:    intp(2),
		AreaSqFt:     intp(1200),
		Status:       &status,
		Floor:        &floor,
		Transaction:  &transaction,
		PropertyType: "Apartment",
		Location:     "Baner, Pune",
		Amenities:    []string{"Gym", "Swimming Pool"},
		Landmarks:    []string{"Metro", "School"},
	}

	want := "This is a 3 BHK apartment located in Baner, Pune. " +
		"It offers a carpet area of 1200 sq ft and is ready to move. " +
		"It features located on the 4 out of 4 floor, 2 bathrooms and amenities like Gym and Swimming Pool. " +
		"The property is priced at ₹95.00 Lakh and is available on a resale basis, with Metro and School close by."

	if got := Compose(fields); got != want {
		t.Fatalf("unexpected description:\n got: %q\nwant: %q", got, want)
	}
}

// The canonical price literals read badly mid-sentence and must be left out.
func TestComposeOmitsPriceLiterals(t *testing.T) {
	got := Compose(models.ExtractedFields{
		Price:    PriceNotAvailable,
		Location: "Pune",
	})
	if strings.Contains(got, PriceNotAvailable) {
		t.Fatalf("description leaked price literal: %q", got)
	}
	if got != "This is a residential in Pune." {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestComposeAmenityCap(t *testing.T) {
	fields := models.ExtractedFields{
		Amenities: []string{"Gym", "Swimming Pool", "Lift", "Parking", "Garden"},
	}
	got := Compose(fields)
	if strings.Contains(got, "Parking") || strings.Contains(got, "Garden") {
		t.Fatalf("expected at most 3 amenities, got %q", got)
	}
	if !strings.Contains(got, "amenities like Gym, Swimming Pool and Lift") {
		t.Fatalf("unexpected amenity phrasing %q", got)
	}
}

func TestComposeLandmarksAlone(t *testing.T) {
	got := Compose(models.ExtractedFields{
		Landmarks: []string{"Metro", "Hospital", "Mall"},
	})
	if !strings.HasSuffix(got, "Metro and Hospital are close by.") {
		t.Fatalf("unexpected landmark phrasing %q", got)
	}
}
