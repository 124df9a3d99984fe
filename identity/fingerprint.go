package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"gharkhoj/models"
)

var (
	localityReplacements = map[string]string{
		"road":      "rd",
		"nagar":     "ngr",
		"sector":    "sec",
		"phase":     "ph",
		"extension": "extn",
		"colony":    "col",
		"society":   "soc",
		"apartment": "apt",
		"towers":    "twr",
		"residency": "res",
		"enclave":   "enc",
		"east":      "e",
		"west":      "w",
		"north":     "n",
		"south":     "s",
	}
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Fingerprint derives a stable identity for a record so the same property
// seen under two URLs (or two queries) collapses to one row. A real listing
// URL is the strongest identity; otherwise fall back to the normalized
// location plus the physical attributes.
func Fingerprint(record *models.PropertyRecord) string {
	var input string
	if record.URL != "" && record.URL != "#" {
		input = "url|" + strings.ToLower(strings.TrimSpace(record.URL))
	} else {
		input = fmt.Sprintf("attrs|%s|%s|%s|%s",
			NormalizeLocation(record.Location),
			intOrDash(record.Bedrooms),
			intOrDash(record.AreaSqFt),
			strings.ToLower(record.PropertyType),
		)
	}

	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}

// NormalizeLocation collapses Indian locality spellings so "Baner Road,
// Pune" and "baner rd pune" fingerprint identically.
func NormalizeLocation(loc string) string {
	loc = strings.ToLower(strings.TrimSpace(loc))
	loc = nonAlnumRegex.ReplaceAllString(loc, " ")
	for full, abbrev := range localityReplacements {
		loc = strings.ReplaceAll(loc, full, abbrev)
	}
	loc = multiSpaceRegex.ReplaceAllString(loc, " ")
	return strings.TrimSpace(loc)
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
