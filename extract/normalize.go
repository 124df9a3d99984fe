package extract

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
	titleSuffixRegex = regexp.MustCompile(`[-|\x{2013}].*$`)
)

// NormalizeText lowercases and collapses whitespace. Every extractor in this
// package assumes its input went through here first.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return multiSpaceRegex.ReplaceAllString(s, " ")
}

// Lump strips all whitespace after lowercasing. Listing sites render spec
// tables as adjacent nodes, so text like "Carpet Area 300 sqft Status Ready
// to Move" arrives with arbitrary spacing; matching against the lump form
// sidesteps that entirely.
func Lump(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), "")
}

// SanitizeTitle cleans portal page titles: trailing "- MagicBricks" style
// suffixes, marketing verbs, then title case.
func SanitizeTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled Property"
	}
	title = titleSuffixRegex.ReplaceAllString(title, "")
	title = strings.ReplaceAll(title, "for Sale", "")
	title = strings.ReplaceAll(title, "Explore", "")
	return TitleCase(strings.TrimSpace(title))
}

// TitleCase uppercases the first letter of each space-separated word.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SanitizeSnippet collapses whitespace and truncates to 250 chars.
func SanitizeSnippet(snippet string) string {
	if strings.TrimSpace(snippet) == "" {
		return "No description available."
	}
	snippet = multiSpaceRegex.ReplaceAllString(strings.TrimSpace(snippet), " ")
	if len(snippet) > 250 {
		return snippet[:250] + "..."
	}
	return snippet
}
