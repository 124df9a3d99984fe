package extract

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(html)))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestRulesUnknownDomainFallsBack(t *testing.T) {
	got := Rules("indiaproperty.com", FieldPrice)
	want := Rules(defaultDomain, FieldPrice)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unknown domain should use the default set, got %v", got)
	}
	if len(got) == 0 {
		t.Fatalf("default price selector set is empty")
	}
}

func TestRulesKnownDomain(t *testing.T) {
	got := Rules("magicbricks.com", FieldArea)
	if len(got) == 0 || got[0] != "div.mb-ldp__dtls__body__list--size" {
		t.Fatalf("unexpected magicbricks area selectors %v", got)
	}
}

// A matching selector whose text fails the plausibility check must not stop
// the walk; a later selector with real content wins.
func TestExtractFieldSkipsImplausible(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<div class="item-price">Contact for best deal</div>
		<div class="total-cost">₹72 Lakh</div>
	</body></html>`)

	got, ok := ExtractField("indiaproperty.com", FieldPrice, doc)
	if !ok || got != "₹72 Lakh" {
		t.Fatalf("expected ₹72 Lakh, got %q (ok=%v)", got, ok)
	}
}

func TestExtractFieldAreaNeedsUnit(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<div class="area-name">Koramangala</div>
	</body></html>`)

	if got, ok := ExtractField("indiaproperty.com", FieldArea, doc); ok {
		t.Fatalf("locality name should not pass as an area, got %q", got)
	}
}

func TestExtractFieldDescriptionLength(t *testing.T) {
	doc := docFromHTML(t, `<html><body>
		<div class="short-description">Nice flat</div>
	</body></html>`)

	if got, ok := ExtractField("indiaproperty.com", FieldDescription, doc); ok {
		t.Fatalf("short text should not pass as a description, got %q", got)
	}
}

func TestExtractFieldAbsent(t *testing.T) {
	doc := docFromHTML(t, `<html><body><p>nothing here</p></body></html>`)
	if _, ok := ExtractField("indiaproperty.com", FieldLocation, doc); ok {
		t.Fatalf("expected no location")
	}
}
