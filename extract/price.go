package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Canonical literals every price output converges to when no amount can be
// parsed. Downstream consumers match on these exact strings.
const (
	PriceOnRequest    = "Price on request"
	PriceNotAvailable = "Price not available"
)

var (
	priceNoiseRegex   = regexp.MustCompile(`(?i)(onwards|negotiable|call for price|price on request)`)
	priceContactRegex = regexp.MustCompile(`(?i)\b(call|request|enquire|contact)\b`)

	// Ordered by priority; first match wins. The range separator tolerates a
	// second currency symbol ("₹55 - ₹70 Lakh") so canonical output re-parses.
	priceRangeRegex  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*₹?\s*(\d+(?:\.\d+)?)\s*(crore|cr|lakhs|lakh|lac|l)\b`)
	priceCroreRegex  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:crore|cr)\b`)
	priceLakhRegex   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:lakhs|lakh|lac|l)\b`)
	priceBigNumRegex = regexp.MustCompile(`(?:₹|rs\.?|inr)?\s*(\d{7,})`)
	priceIndianRegex = regexp.MustCompile(`(?:₹|rs\.?|inr)?\s*(\d{1,2},\d{2},\d{3,})`)
	priceKRegex      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*k\b`)
)

// NormalizePrice canonicalizes Indian-currency free text into one display
// format: "₹1.20 Cr", "₹55.00 Lakh", "₹55 - ₹70 Lakh", or one of the
// literal fallbacks. Idempotent on its own output; never fails on garbage.
func NormalizePrice(raw string) string {
	if raw == PriceOnRequest || raw == PriceNotAvailable {
		return raw
	}

	text := NormalizeText(raw)
	if text == "" {
		return PriceNotAvailable
	}

	text = strings.TrimSpace(priceNoiseRegex.ReplaceAllString(text, ""))
	if priceContactRegex.MatchString(text) {
		return PriceOnRequest
	}

	if m := priceRangeRegex.FindStringSubmatch(text); m != nil {
		return fmt.Sprintf("₹%s - ₹%s %s", m[1], m[2], canonicalUnit(m[3]))
	}
	if m := priceCroreRegex.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return fmt.Sprintf("₹%.2f Cr", v)
		}
	}
	if m := priceLakhRegex.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return fmt.Sprintf("₹%.2f Lakh", v)
		}
	}
	if m := priceBigNumRegex.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return formatByMagnitude(v)
		}
	}
	if m := priceIndianRegex.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
			return formatByMagnitude(v)
		}
	}
	if m := priceKRegex.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			// "500K" reads as ₹50 Lakh
			return fmt.Sprintf("₹%.2f Lakh", v/10)
		}
	}

	return PriceNotAvailable
}

var (
	bodyPriceContextRegex = regexp.MustCompile(`(?:price|cost|rate|amount|ask|asking|₹|rs\.?|inr)[:\s]\s*(\d+(?:\.\d+)?)\s*(cr|crore|lakhs|lakh|lac|l)\b`)
	bodyPriceUnitRegex    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(cr|crore|lakhs|lakh|lac|l)\b`)
	bodyPriceSymbolRegex  = regexp.MustCompile(`₹\s*(\d+(?:\.\d+)?)\s*(cr|crore|lakhs|lakh|lac|l)?\b`)
	bodyPriceApproxRegex  = regexp.MustCompile(`(?:under|below|within|around|approx)\s*₹?\s*(\d+(?:\.\d+)?)\s*(cr|crore|lakhs|lakh|lac|l)\b`)
)

// ExtractPriceFromText scans free-form body text for an amount that appears
// in a price-like context. Used as the last-resort fallback when every
// selector and meta tag came up empty.
func ExtractPriceFromText(text string) string {
	if strings.TrimSpace(text) == "" {
		return PriceNotAvailable
	}
	text = NormalizeText(text)

	patterns := []*regexp.Regexp{
		bodyPriceContextRegex,
		bodyPriceUnitRegex,
		bodyPriceSymbolRegex,
		bodyPriceApproxRegex,
	}

	for _, pattern := range patterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		unit := ""
		if len(m) > 2 {
			unit = m[2]
		}
		switch {
		case strings.Contains(unit, "cr"):
			return fmt.Sprintf("₹%.2f Cr", v)
		case strings.Contains(unit, "l"):
			return fmt.Sprintf("₹%.2f Lakh", v)
		case v > 100:
			// Bare number in a price context; treat as thousands of rupees.
			return fmt.Sprintf("₹%.2f Lakh", v/100)
		case v > 10:
			return fmt.Sprintf("₹%.2f Lakh", v)
		default:
			return fmt.Sprintf("₹%.2f Cr", v)
		}
	}

	return PriceNotAvailable
}

func canonicalUnit(unit string) string {
	if strings.Contains(unit, "cr") {
		return "Cr"
	}
	return "Lakh"
}

func formatByMagnitude(v float64) string {
	switch {
	case v >= 1e7:
		return fmt.Sprintf("₹%.2f Cr", v/1e7)
	case v >= 1e5:
		return fmt.Sprintf("₹%.2f Lakh", v/1e5)
	default:
		return "₹" + groupThousands(int64(v))
	}
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
