package extract

import (
	"fmt"
	"strings"

	"gharkhoj/models"
)

// Compose renders a deterministic multi-sentence description from whatever
// fields survived extraction. Each sentence slot is emitted only when its
// backing fields are present; the degenerate case still yields
// "This is a residential." — the composer never returns an empty string.
func Compose(f models.ExtractedFields) string {
	ptype := f.PropertyType
	if ptype == "" {
		ptype = DefaultPropertyType
	}
	ptypeLower := strings.ToLower(ptype)
	loc := composableLocation(f.Location)

	var parts []string

	// Slot 1: type, bedrooms, location. Always produces something.
	switch {
	case f.Bedrooms != nil && loc != "":
		parts = append(parts, fmt.Sprintf("This is a %d BHK %s located in %s.", *f.Bedrooms, ptypeLower, loc))
	case f.Bedrooms != nil:
		parts = append(parts, fmt.Sprintf("This is a %d BHK %s.", *f.Bedrooms, ptypeLower))
	case loc != "":
		parts = append(parts, fmt.Sprintf("This is a %s in %s.", ptypeLower, loc))
	default:
		parts = append(parts, fmt.Sprintf("This is a %s.", ptypeLower))
	}

	// Slot 2: carpet area, possession status, furnishing.
	if s := areaSentence(f); s != "" {
		parts = append(parts, s)
	}

	// Slot 3: floor, bathrooms, balconies, a few amenities.
	if s := featureSentence(f); s != "" {
		parts = append(parts, s)
	}

	// Slot 4: price, transaction type, nearby landmarks.
	if s := priceSentence(f); s != "" {
		parts = append(parts, s)
	}

	return strings.Join(parts, " ")
}

func areaSentence(f models.ExtractedFields) string {
	var qualifiers []string
	if f.Status != nil {
		qualifiers = append(qualifiers, strings.ToLower(string(*f.Status)))
	}
	if f.Furnishing != nil {
		qualifiers = append(qualifiers, strings.ToLower(string(*f.Furnishing)))
	}

	switch {
	case f.AreaSqFt != nil && len(qualifiers) > 0:
		return fmt.Sprintf("It offers a carpet area of %d sq ft and is %s.", *f.AreaSqFt, joinAnd(qualifiers))
	case f.AreaSqFt != nil:
		return fmt.Sprintf("It offers a carpet area of %d sq ft.", *f.AreaSqFt)
	case len(qualifiers) > 0:
		return fmt.Sprintf("It is %s.", joinAnd(qualifiers))
	}
	return ""
}

func featureSentence(f models.ExtractedFields) string {
	var extras []string
	if f.Floor != nil {
		extras = append(extras, fmt.Sprintf("located on the %s floor", *f.Floor))
	}
	if f.Bathrooms != nil {
		extras = append(extras, fmt.Sprintf("%d %s", *f.Bathrooms, plural(*f.Bathrooms, "bathroom", "bathrooms")))
	}
	if f.BalconyCount != nil {
		extras = append(extras, fmt.Sprintf("%d %s", *f.BalconyCount, plural(*f.BalconyCount, "balcony", "balconies")))
	}
	if len(f.Amenities) > 0 {
		shown := f.Amenities
		if len(shown) > 3 {
			shown = shown[:3]
		}
		extras = append(extras, "amenities like "+joinAnd(shown))
	}
	if len(extras) == 0 {
		return ""
	}
	return "It features " + joinAnd(extras) + "."
}

func priceSentence(f models.ExtractedFields) string {
	price := f.Price
	// The canonical fallback literals read badly mid-sentence.
	if price == PriceNotAvailable || price == PriceOnRequest {
		price = ""
	}

	var sentence string
	switch {
	case price != "" && f.Transaction != nil:
		sentence = fmt.Sprintf("The property is priced at %s and is available on a %s basis",
			price, strings.ToLower(string(*f.Transaction)))
	case price != "":
		sentence = fmt.Sprintf("The property is priced at %s", price)
	case f.Transaction != nil:
		sentence = fmt.Sprintf("It is available on a %s basis", strings.ToLower(string(*f.Transaction)))
	}

	if len(f.Landmarks) > 0 {
		shown := f.Landmarks
		if len(shown) > 2 {
			shown = shown[:2]
		}
		if sentence == "" {
			return joinAnd(shown) + " are close by."
		}
		sentence += ", with " + joinAnd(shown) + " close by"
	}
	if sentence == "" {
		return ""
	}
	return sentence + "."
}

// composableLocation treats the "we never found anything" placeholders as
// absent so the minimal description stays minimal.
func composableLocation(loc string) string {
	if loc == "" || strings.EqualFold(loc, "unknown") {
		return ""
	}
	return loc
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
