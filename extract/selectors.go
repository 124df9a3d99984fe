package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FieldKind names one extractable page field.
type FieldKind string

const (
	FieldPrice       FieldKind = "price"
	FieldDescription FieldKind = "description"
	FieldArea        FieldKind = "area"
	FieldLocation    FieldKind = "location"
	FieldAmenities   FieldKind = "amenities"
	FieldLandmarks   FieldKind = "landmarks"
)

// defaultDomain keys the generic rule set used for sites we have no
// dedicated selectors for.
const defaultDomain = "default"

// selectorRules maps domain -> field -> ordered CSS selectors. First
// selector yielding plausible text wins. Adding a site is a table edit,
// not a code change. Selectors mirror the markup of each portal as of the
// last time it was inspected; they rot, which is why every field also has
// a meta/regex fallback behind it.
var selectorRules = map[string]map[FieldKind][]string{
	"99acres.com": {
		FieldPrice: {
			"span.list_header_bold",
			"div.factTablePrice",
			"span.priceIconSpan",
			"div#priceSection",
			"div.list_header_semiBold",
			"td#priceDetail",
			`div[class*="projectPriceDetail"]`,
			`span[class*="configurationCardsPrice"]`,
		},
		FieldDescription: {
			`div[class*="projectDescFull"]`,
			`div[class*="allDescr"]`,
			`div[class*="readMoreContent"]`,
			`div[class*="projectDesc"]`,
			`div[class*="factTableDescription"]`,
			"div#aboutProperty",
			`p[class*="desc"]`,
			`div[class*="overview"]`,
		},
		FieldArea: {
			"td#builtUpAreaDisplay",
			`span[class*="ellipsis"][title*="sq.ft"]`,
			"td#superBuiltUpAreaDisplay",
		},
		FieldLocation: {
			"div#locality",
			"span.locName",
			"div.project-address",
		},
		FieldAmenities: {
			`div[class*="amenity"]`,
			`section[id*="amenities"]`,
			`div[class*="AmenitiesWrapper"]`,
		},
		FieldLandmarks: {
			`div[class*="landmark"]`,
			`div[class*="nearby"]`,
		},
	},
	"magicbricks.com": {
		FieldPrice: {
			"div.priceSqft__price",
			"span.priceSqft__price--text",
			"div.prop-price",
			`div[class*="price-details"]`,
			"div.mb-ldp__pricing",
			"span.m-srp-card__price",
			`div[class*="priceDetail"]`,
			`div[class*="price"]`,
			`span[class*="price"]`,
		},
		FieldDescription: {
			"div.mb-ldp__desc-overview",
			"div.mb-ldp__descriptionBody",
			`div[id^="descriptionWrapper"]`,
			"div.mb-ldp__description__full",
			"div.mb-ldp__description__text",
			"div.mb-ldp__description",
			`div[class*="prop-desc"]`,
			`div[id*="description"]`,
			"div.m-srp-card__desc",
			`div[class*="overview"]`,
			`div[class*="dtl__desc"]`,
		},
		FieldArea: {
			"div.mb-ldp__dtls__body__list--size",
			"span.m-srp-card__area",
			"div.area",
		},
		FieldLocation: {
			"div.mb-ldp__dtls__body__list--location",
			"span.m-srp-card__title--loc",
		},
		FieldAmenities: {
			"div.mb-ldp__amenities",
			`div[class*="amenities"]`,
		},
		FieldLandmarks: {
			"div.mb-ldp__landmark",
			`div[class*="nearby"]`,
		},
	},
	"housing.com": {
		FieldPrice: {
			"div.price-details",
			"span.price-value",
			`div[class*="price-section"]`,
			`h1[class*="price"]`,
			"div.display-price",
			`span[class*="listing-price"]`,
		},
		FieldDescription: {
			`div[class*="description"]`,
			`div[class*="overview"]`,
			"div.css-1hidcok",
			"div#description",
			`p[class*="desc"]`,
			"div.listing-description",
		},
		FieldArea: {
			"div.css-1ty5xzi",
			"div.area-details",
			"span.area",
		},
		FieldLocation: {
			"div.css-1c9b2d8",
			"span.location",
		},
		FieldAmenities: {
			`div[class*="amenities"]`,
			`section[class*="amenities"]`,
		},
		FieldLandmarks: {
			`div[class*="nearby"]`,
			`div[class*="landmark"]`,
		},
	},
	"squareyards.com": {
		FieldPrice: {
			"h3.price",
			`div[class*="price-tag"]`,
			"span.amount",
			"div.project-price",
			`span[class*="property-price"]`,
		},
		FieldDescription: {
			`div[class*="project-description"]`,
			`div[id*="description"]`,
			`div[class*="prop-desc"]`,
			`p[class*="desc"]`,
			`div[class*="overview"]`,
		},
		FieldArea: {
			"div.project-area",
			"span.size",
		},
		FieldLocation: {
			"div.project-locality",
			"span.locality",
		},
		FieldAmenities: {
			`div[class*="amenities"]`,
		},
		FieldLandmarks: {
			`div[class*="landmark"]`,
		},
	},
	"makaan.com": {
		FieldPrice: {
			`div[class*="price-wrap"]`,
			"span.price",
			"div.listing-price",
			`td[class*="price"]`,
			`div[data-rf="price"]`,
		},
		FieldDescription: {
			`div[class*="description"]`,
			"div.listing-description",
			`div[id*="desc"]`,
			`p[class*="desc"]`,
			`div[class*="overview"]`,
		},
		FieldArea: {
			"td.size",
			"div.listing-details-size",
		},
		FieldLocation: {
			"div.locWrap",
			"span.locality",
		},
		FieldAmenities: {
			`div[class*="amenities"]`,
		},
		FieldLandmarks: {
			`div[class*="landmark"]`,
		},
	},
	defaultDomain: {
		FieldPrice: {
			`[class*="price"]`,
			`[class*="Price"]`,
			`[class*="cost"]`,
			`[class*="amount"]`,
			"[data-price]",
			`[itemprop="price"]`,
		},
		FieldDescription: {
			`[class*="description"]`,
			`[class*="Description"]`,
			`[class*="overview"]`,
			`[class*="summary"]`,
			`p[class*="desc"]`,
			`div[id*="description"]`,
			`div[id*="overview"]`,
			`[itemprop="description"]`,
		},
		FieldArea: {
			`[class*="area"]`,
			`[class*="size"]`,
			"[data-area]",
		},
		FieldLocation: {
			`[class*="location"]`,
			`[class*="locality"]`,
			`[itemprop="address"]`,
		},
		FieldAmenities: {
			`[class*="amenit"]`,
			`[class*="facilit"]`,
		},
		FieldLandmarks: {
			`[class*="landmark"]`,
			`[class*="nearby"]`,
		},
	},
}

var (
	anyDigitRegex = regexp.MustCompile(`\d`)
	sizeUnitRegex = regexp.MustCompile(`(?i)sq\.?\s*ft|sqft|square feet|sq\.?\s*m\b|sqm`)
)

// Rules returns the ordered selector list for a domain and field. Unknown
// domains get the generic default set, so the fallback order stays
// deterministic.
func Rules(domain string, kind FieldKind) []string {
	if rules, ok := selectorRules[domain]; ok {
		if sels, ok := rules[kind]; ok {
			return sels
		}
	}
	return selectorRules[defaultDomain][kind]
}

// ExtractField walks the domain's selector list for a field kind and
// returns the first plausible, non-empty text. Absence is an ordinary
// outcome, reported through ok.
func ExtractField(domain string, kind FieldKind, doc *goquery.Document) (value string, ok bool) {
	for _, selector := range Rules(domain, kind) {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := strings.TrimSpace(sel.Text())
			if plausible(kind, text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// plausible filters out decoy matches: a "price" div holding a tooltip, an
// "area" cell holding a locality name.
func plausible(kind FieldKind, text string) bool {
	if text == "" {
		return false
	}
	switch kind {
	case FieldPrice:
		lower := strings.ToLower(text)
		for _, marker := range []string{"₹", "rs", "inr", "cr", "lac", "lakh"} {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		return anyDigitRegex.MatchString(text)
	case FieldArea:
		return sizeUnitRegex.MatchString(text)
	case FieldDescription:
		return len(text) > 50
	case FieldLocation:
		return len(text) > 3
	default:
		return true
	}
}
