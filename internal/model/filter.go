package model

// DateRange is the closed set of temporal windows a query can ask for.
type DateRange string

const (
	DateRangeNone        DateRange = "none"
	DateRangeToday       DateRange = "today"
	DateRangeTomorrow    DateRange = "tomorrow"
	DateRangeThisWeek    DateRange = "this_week"
	DateRangeThisWeekend DateRange = "this_weekend"
	DateRangeNextWeek    DateRange = "next_week"
)

// ValidDateRange reports whether s names a known date range.
func ValidDateRange(s string) bool {
	switch DateRange(s) {
	case DateRangeNone, DateRangeToday, DateRangeTomorrow,
		DateRangeThisWeek, DateRangeThisWeekend, DateRangeNextWeek:
		return true
	}
	return false
}

// FilterSpec is the structured intent extracted from a free-text query.
// It is treated as immutable once produced: the orchestrator hands the same
// value to the filter engine and the composer without modifying it.
type FilterSpec struct {
	DateRange       DateRange `json:"date_range"`
	Categories      []string  `json:"categories,omitempty"`
	ListingTypes    []string  `json:"listing_types,omitempty"`
	IncludeEvents   bool      `json:"include_events"`
	IncludeListings bool      `json:"include_listings"`
	IsFree          bool      `json:"is_free"`
	MaxPrice        *float64  `json:"max_price,omitempty"`
	AgeRange        *int      `json:"age_range,omitempty"`
	Keywords        []string  `json:"keywords,omitempty"`
}

// NewFilterSpec returns a spec with every field at its default: no date
// window, both content sources included, no price or age constraints.
func NewFilterSpec() FilterSpec {
	return FilterSpec{
		DateRange:       DateRangeNone,
		IncludeEvents:   true,
		IncludeListings: true,
	}
}

// HasCategory reports whether name is one of the spec's event categories.
func (f FilterSpec) HasCategory(name string) bool {
	for _, c := range f.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// HasListingType reports whether name is one of the spec's listing types.
func (f FilterSpec) HasListingType(name string) bool {
	for _, t := range f.ListingTypes {
		if t == name {
			return true
		}
	}
	return false
}
