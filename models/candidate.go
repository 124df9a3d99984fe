package models

// ListingCandidate is a detail-page URL awaiting extraction, plus whatever
// text the acquisition tier managed to grab up front. Title and Snippet are
// opportunistic: the structured tier gets them from the search API, the
// manual tier lifts them straight off the listing card so a later parse
// failure still leaves something to work with.
type ListingCandidate struct {
	URL          string `json:"url"`
	SourceDomain string `json:"source_domain"`
	Title        string `json:"title,omitempty"`
	Snippet      string `json:"snippet,omitempty"`
}
