package extract

import (
	"regexp"
	"sort"
	"strings"
)

// keywordFamily maps a set of synonym patterns to one canonical label.
// Patterns are matched on word boundaries so "parking" never lights up the
// "Park" landmark and "small" never lights up "Mall".
type keywordFamily struct {
	label    string
	patterns []*regexp.Regexp
}

func family(label string, keywords ...string) keywordFamily {
	f := keywordFamily{label: label}
	for _, kw := range keywords {
		f.patterns = append(f.patterns, regexp.MustCompile(`\b`+kw+`\b`))
	}
	return f
}

var amenityFamilies = []keywordFamily{
	family("Gym", "gym", "gymnasium", "fitness centre", "fitness center"),
	family("Swimming Pool", "swimming pool", "pool", "swimming"),
	family("Parking", "parking", "car park"),
	family("Garden", "garden", "landscaped gardens?"),
	family("Lift", "lift", "elevator"),
	family("Clubhouse", "clubhouse", "club house"),
	family("Security", "security", "gated", "cctv"),
	family("Play Area", "play area", "playground", "kids zone"),
	family("Power Backup", "power backup", "power back-up", "generator"),
	family("Terrace", "terrace"),
	family("Jogging Track", "jogging track", "jogging", "walking track"),
	family("Sports Facility", "sports facility", "sports complex", "badminton", "tennis"),
	family("Community Hall", "community hall", "banquet hall"),
}

var landmarkFamilies = []keywordFamily{
	family("Metro", "near metro", "metro station", "metro"),
	family("School", "schools?"),
	family("Hospital", "hospitals?"),
	family("Mall", "malls?", "shopping mall", "shopping centre"),
	family("Airport", "airport"),
	family("Park", "parks?"),
	family("Market", "markets?"),
}

// ExtractAmenities scans text for the amenity vocabulary and returns
// canonical labels, deduplicated case-insensitively, ordered by first
// appearance in the text.
func ExtractAmenities(text string) []string {
	return scanFamilies(amenityFamilies, text)
}

// ExtractLandmarks does the same for nearby-landmark phrases.
func ExtractLandmarks(text string) []string {
	return scanFamilies(landmarkFamilies, text)
}

func scanFamilies(families []keywordFamily, text string) []string {
	text = NormalizeText(text)
	if text == "" {
		return nil
	}

	type hit struct {
		label string
		pos   int
	}
	var hits []hit

	for _, f := range families {
		first := -1
		for _, p := range f.patterns {
			loc := p.FindStringIndex(text)
			if loc == nil {
				continue
			}
			if first == -1 || loc[0] < first {
				first = loc[0]
			}
		}
		if first >= 0 {
			hits = append(hits, hit{label: f.label, pos: first})
		}
	}

	if len(hits) == 0 {
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	labels := make([]string, 0, len(hits))
	seen := make(map[string]bool, len(hits))
	for _, h := range hits {
		key := strings.ToLower(h.label)
		if seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, h.label)
	}
	return labels
}
