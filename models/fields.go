package models

type PossessionStatus string

const (
	StatusReadyToMove       PossessionStatus = "Ready to Move"
	StatusUnderConstruction PossessionStatus = "Under Construction"
	StatusNew               PossessionStatus = "New"
)

type TransactionType string

const (
	TransactionResale TransactionType = "Resale"
	TransactionNew    TransactionType = "New"
)

type Furnishing string

const (
	Furnished   Furnishing = "Furnished"
	Unfurnished Furnishing = "Unfurnished"
)

// ExtractedFields holds everything the extractors pulled out of one listing.
// Pointer fields are nil when the page/snippet simply didn't say; absence is
// data here, never an error. Location is the one exception: it always carries
// at least the caller-supplied default.
type ExtractedFields struct {
	Price        string            `json:"price,omitempty"`
	Bedrooms     *int              `json:"bedrooms,omitempty"`
	Bathrooms    *int              `json:"bathrooms,omitempty"`
	AreaSqFt     *int              `json:"areaSqFt,omitempty"`
	Status       *PossessionStatus `json:"status,omitempty"`
	Floor        *string           `json:"floor,omitempty"`
	Transaction  *TransactionType  `json:"transaction,omitempty"`
	Furnishing   *Furnishing       `json:"furnishing,omitempty"`
	BalconyCount *int              `json:"balcony_count,omitempty"`
	PropertyType string            `json:"property_type,omitempty"`
	Location     string            `json:"location"`

	// Insertion-ordered, deduplicated canonical labels.
	Amenities []string `json:"amenities,omitempty"`
	Landmarks []string `json:"landmarks,omitempty"`
}
