package extract

import (
	"reflect"
	"testing"
)

func TestExtractAmenitiesOrder(t *testing.T) {
	got := ExtractAmenities("swimming pool on the terrace, gym on the ground floor")
	want := []string{"Swimming Pool", "Terrace", "Gym"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractAmenitiesDedupe(t *testing.T) {
	got := ExtractAmenities("gym, gymnasium and a fitness centre")
	if !reflect.DeepEqual(got, []string{"Gym"}) {
		t.Fatalf("expected single Gym, got %v", got)
	}
}

// Word boundaries: "parking" must not light up the Park landmark and
// "small" must not light up Mall.
func TestExtractLandmarksWordBoundaries(t *testing.T) {
	if got := ExtractLandmarks("ample parking available"); got != nil {
		t.Fatalf("expected no landmarks, got %v", got)
	}
	if got := ExtractLandmarks("a small storage room"); got != nil {
		t.Fatalf("expected no landmarks, got %v", got)
	}

	got := ExtractLandmarks("walking distance from the park and city mall")
	want := []string{"Park", "Mall"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractAmenitiesEmpty(t *testing.T) {
	if got := ExtractAmenities(""); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := ExtractAmenities("a plain description"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
