package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gharkhoj/models"
)

const DefaultPropertyType = "Residential"

var (
	bedroomsRegex  = regexp.MustCompile(`(\d+)\s*(?:bhk|bedrooms?)`)
	bathroomsRegex = regexp.MustCompile(`(\d+)\s*(?:bathrooms?|baths?)`)
	areaSqFtRegex  = regexp.MustCompile(`(\d{3,5})\s*(?:sqft|sq\.?\s*ft|square feet)`)
	areaSqMRegex   = regexp.MustCompile(`(\d{2,4})\s*(?:sqm|sq\.?\s*m\b)`)
	propTypeRegex  = regexp.MustCompile(`(apartment|flat|villa|house|plot|land|commercial)`)

	lumpBedroomsRegex  = regexp.MustCompile(`(\d+)(?:bhk|bedroom)`)
	lumpBathroomsRegex = regexp.MustCompile(`bath(?:room)?s?(\d+)|(\d+)bath(?:room)?`)
	lumpAreaRegex      = regexp.MustCompile(`(\d{3,5})(?:sqft|squarefeet|sq\.?ft)`)
	lumpFloorRegex     = regexp.MustCompile(`floor(\d+)outof(\d+)`)
	lumpBalconyRegex   = regexp.MustCompile(`balcony(\d+)|(\d+)balcony`)

	addressLabelRegex = regexp.MustCompile(`(?i)address\s*:\s*([^\r\n]+)`)
)

// ExtractBedrooms returns the first integer immediately preceding a room
// noun ("3 BHK", "2 bedroom"), or nil.
func ExtractBedrooms(text string) *int {
	return firstInt(bedroomsRegex, NormalizeText(text))
}

// ExtractBathrooms returns the first integer preceding a bath noun, or nil.
func ExtractBathrooms(text string) *int {
	return firstInt(bathroomsRegex, NormalizeText(text))
}

// ExtractArea returns the first 3-5 digit integer preceding a size unit, in
// square feet. Square-metre figures are converted.
func ExtractArea(text string) *int {
	text = NormalizeText(text)
	if v := firstInt(areaSqFtRegex, text); v != nil {
		return v
	}
	if m := areaSqMRegex.FindStringSubmatch(text); m != nil {
		if sqm, err := strconv.Atoi(m[1]); err == nil {
			sqft := int(float64(sqm) * 10.764)
			return &sqft
		}
	}
	return nil
}

// ExtractPropertyType returns the first recognized property-type keyword in
// title case, or "" when the text names none.
func ExtractPropertyType(text string) string {
	if m := propTypeRegex.FindStringSubmatch(NormalizeText(text)); m != nil {
		return TitleCase(m[1])
	}
	return ""
}

// ParseSnippet pulls structured fields out of a raw description blob such as
// "Carpet Area300 sqftStatusReady to MoveFloor4 out of 4Transaction
// TypeResale". Portal spec tables collapse into exactly this shape, so most
// matching runs against the whitespace-stripped lump. Never fails; fields
// the text doesn't mention stay nil.
func ParseSnippet(raw, defaultLocation string) models.ExtractedFields {
	fields := models.ExtractedFields{Location: defaultLocation}

	text := strings.TrimSpace(raw)
	remaining := text
	if m := addressLabelRegex.FindStringSubmatchIndex(text); m != nil {
		fields.Location = strings.TrimSpace(text[m[2]:m[3]])
		remaining = strings.TrimSpace(text[m[1]:])
	}

	lump := Lump(remaining)

	fields.Bedrooms = firstInt(lumpBedroomsRegex, lump)
	fields.Bathrooms = firstIntAnyGroup(lumpBathroomsRegex, lump)
	fields.AreaSqFt = firstInt(lumpAreaRegex, lump)
	fields.BalconyCount = firstIntAnyGroup(lumpBalconyRegex, lump)

	fields.Status = statusFromLump(lump)
	fields.Transaction = transactionFromLump(lump)
	fields.Furnishing = furnishingFromLump(lump)

	if m := lumpFloorRegex.FindStringSubmatch(lump); m != nil {
		floor := fmt.Sprintf("%s out of %s", m[1], m[2])
		fields.Floor = &floor
	}

	fields.Price = ExtractPriceFromText(remaining)
	fields.PropertyType = ExtractPropertyType(remaining)
	fields.Amenities = ExtractAmenities(raw)
	fields.Landmarks = ExtractLandmarks(raw)

	return fields
}

// ParseFreeText is the regex-only fallback for candidates whose live page
// never parsed: title plus search snippet in, best-effort fields out.
func ParseFreeText(title, snippet, defaultLocation string) models.ExtractedFields {
	combined := NormalizeText(title + " " + snippet)

	fields := models.ExtractedFields{
		Location:     defaultLocation,
		Price:        ExtractPriceFromText(combined),
		Bedrooms:     ExtractBedrooms(combined),
		Bathrooms:    ExtractBathrooms(combined),
		AreaSqFt:     ExtractArea(combined),
		PropertyType: ExtractPropertyType(combined),
		Amenities:    ExtractAmenities(combined),
		Landmarks:    ExtractLandmarks(combined),
	}
	return fields
}

func statusFromLump(lump string) *models.PossessionStatus {
	var s models.PossessionStatus
	switch {
	case strings.Contains(lump, "readytomove"):
		s = models.StatusReadyToMove
	case strings.Contains(lump, "underconstruction"):
		s = models.StatusUnderConstruction
	case strings.Contains(lump, "newlaunch") || strings.Contains(lump, "new"):
		s = models.StatusNew
	default:
		return nil
	}
	return &s
}

func transactionFromLump(lump string) *models.TransactionType {
	var t models.TransactionType
	switch {
	case strings.Contains(lump, "resale"):
		t = models.TransactionResale
	case strings.Contains(lump, "new") || strings.Contains(lump, "launch"):
		t = models.TransactionNew
	default:
		return nil
	}
	return &t
}

func furnishingFromLump(lump string) *models.Furnishing {
	var f models.Furnishing
	switch {
	// "unfurnished" contains "furnished"; order matters.
	case strings.Contains(lump, "unfurnished"):
		f = models.Unfurnished
	case strings.Contains(lump, "furnished"):
		f = models.Furnished
	default:
		return nil
	}
	return &f
}

func firstInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &v
}

func firstIntAnyGroup(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		if v, err := strconv.Atoi(g); err == nil {
			return &v
		}
	}
	return nil
}
