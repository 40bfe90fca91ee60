package model

// EventCategories is the closed taxonomy for organizer-posted events.
// Parsers must only emit labels from this list.
var EventCategories = []string{
	"Family & Kids",
	"Music & Concerts",
	"Food & Dining",
	"Arts & Culture",
	"Sports & Recreation",
	"Nightlife",
	"Markets & Shopping",
	"Community",
}

// ListingTypes is the closed taxonomy for peer-posted community listings.
var ListingTypes = []string{
	"Garage Sales",
	"Classes & Workshops",
	"Volunteering",
	"Sports & Fitness",
	"Community Meetups",
}

// IsEventCategory reports whether label is part of the event taxonomy.
func IsEventCategory(label string) bool {
	for _, c := range EventCategories {
		if c == label {
			return true
		}
	}
	return false
}

// IsListingType reports whether label is part of the listing taxonomy.
func IsListingType(label string) bool {
	for _, t := range ListingTypes {
		if t == label {
			return true
		}
	}
	return false
}
