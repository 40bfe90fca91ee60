package model

// SearchRequest represents a search query request.
type SearchRequest struct {
	Query  string  `json:"query" binding:"required"`
	UserID *string `json:"user_id,omitempty"`
}

// SearchResult is the single response shape of the search operation. It is
// always well formed: on internal failure it carries the degraded-service
// message with empty result sets rather than an error.
type SearchResult struct {
	Message      string            `json:"message"`
	Events       []SearchCandidate `json:"events"`
	Listings     []SearchCandidate `json:"listings"`
	Filters      FilterSpec        `json:"filters"`
	TotalMatches int               `json:"total_matches"`
	Took         int64             `json:"took_ms"`
}

// TaxonomyResponse lists the closed vocabularies for UI pickers.
type TaxonomyResponse struct {
	Categories   []string `json:"categories"`
	ListingTypes []string `json:"listing_types"`
	DateRanges   []string `json:"date_ranges"`
}
