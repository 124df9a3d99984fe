package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gharkhoj/models"
)

// PageFields is everything one parsed detail page yields.
type PageFields struct {
	Title          string
	RawDescription string
	Fields         models.ExtractedFields
}

var (
	metaPriceSelectors = []string{
		`meta[property="product:price:amount"]`,
		`meta[name="price"]`,
		`meta[itemprop="price"]`,
	}
	metaDescSelectors = []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
	}
	labeledDescRegex = regexp.MustCompile(`(?i)(?:about|description|overview|details)\s*:\s*([^.!?]{50,500})`)
)

// FromDocument runs the full selector → meta → regex fallback chain over a
// parsed page and returns merged fields. Price and description always end
// with a defined value (canonical literal / empty raw description); area and
// location are never synthesized — if the page doesn't state them, they stay
// absent.
func FromDocument(domain string, doc *goquery.Document, defaultLocation string) PageFields {
	body := bodyText(doc)

	page := PageFields{
		Title: SanitizeTitle(doc.Find("title").First().Text()),
	}

	// Price: selectors, then meta tags, then a body-text scan.
	price := PriceNotAvailable
	if text, ok := ExtractField(domain, FieldPrice, doc); ok {
		price = NormalizePrice(text)
	}
	if price == PriceNotAvailable {
		if meta := firstMetaContent(doc, metaPriceSelectors); meta != "" {
			price = NormalizePrice(meta)
		}
	}
	if price == PriceNotAvailable {
		price = ExtractPriceFromText(body)
	}

	// Description: selectors, then meta description, then a labeled-text scan.
	rawDesc, _ := ExtractField(domain, FieldDescription, doc)
	if rawDesc == "" {
		rawDesc = firstMetaContent(doc, metaDescSelectors)
	}
	if rawDesc == "" {
		if m := labeledDescRegex.FindStringSubmatch(body); m != nil {
			rawDesc = strings.TrimSpace(m[1])
		}
	}
	page.RawDescription = rawDesc

	// Area and location come from selectors only; absence is valid.
	location := defaultLocation
	if text, ok := ExtractField(domain, FieldLocation, doc); ok {
		location = strings.TrimSpace(text)
	}

	fields := models.ExtractedFields{
		Price:        price,
		Location:     location,
		Bedrooms:     ExtractBedrooms(body),
		Bathrooms:    ExtractBathrooms(body),
		PropertyType: ExtractPropertyType(body),
	}
	if text, ok := ExtractField(domain, FieldArea, doc); ok {
		fields.AreaSqFt = ExtractArea(text)
	}

	// Amenities/landmarks: prefer the dedicated container when a selector
	// hits, otherwise scan the whole body against the vocabulary.
	amenityText := body
	if text, ok := ExtractField(domain, FieldAmenities, doc); ok {
		amenityText = text
	}
	fields.Amenities = ExtractAmenities(amenityText)

	landmarkText := body
	if text, ok := ExtractField(domain, FieldLandmarks, doc); ok {
		landmarkText = text
	}
	fields.Landmarks = ExtractLandmarks(landmarkText)

	// The description blob usually carries the spec-table leftovers (status,
	// floor, furnishing, balconies) that no portal exposes as clean markup.
	page.Fields = mergeSnippetFields(fields, rawDesc)
	return page
}

// mergeSnippetFields fills gaps in page-level fields from a snippet parse of
// the raw description. Page-level values win; the snippet only supplies what
// the selectors missed.
func mergeSnippetFields(fields models.ExtractedFields, rawDesc string) models.ExtractedFields {
	if strings.TrimSpace(rawDesc) == "" {
		return fields
	}
	snippet := ParseSnippet(rawDesc, fields.Location)

	fields.Status = snippet.Status
	fields.Floor = snippet.Floor
	fields.Transaction = snippet.Transaction
	fields.Furnishing = snippet.Furnishing
	fields.BalconyCount = snippet.BalconyCount

	if fields.Bedrooms == nil {
		fields.Bedrooms = snippet.Bedrooms
	}
	if fields.Bathrooms == nil {
		fields.Bathrooms = snippet.Bathrooms
	}
	if fields.AreaSqFt == nil {
		fields.AreaSqFt = snippet.AreaSqFt
	}
	if fields.PropertyType == "" {
		fields.PropertyType = snippet.PropertyType
	}
	if fields.Price == PriceNotAvailable && snippet.Price != PriceNotAvailable {
		fields.Price = snippet.Price
	}
	if len(fields.Amenities) == 0 {
		fields.Amenities = snippet.Amenities
	}
	if len(fields.Landmarks) == 0 {
		fields.Landmarks = snippet.Landmarks
	}
	return fields
}

func firstMetaContent(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if strings.TrimSpace(content) != "" {
				return strings.TrimSpace(content)
			}
		}
	}
	return ""
}

func bodyText(doc *goquery.Document) string {
	body := doc.Find("body").Text()
	if strings.TrimSpace(body) == "" {
		body = doc.Text()
	}
	return body
}
