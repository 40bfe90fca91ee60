package model

import "time"

// SearchCandidate is the unified shape events and listings are reduced to
// before filtering. Listings are frequently not time-bound; their StartDate
// stays nil and the filter engine exempts them from date criteria.
type SearchCandidate struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Category    string     `json:"category" db:"category"`
	StartDate   *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	Cost        float64    `json:"cost" db:"cost"`
	IsFree      bool       `json:"is_free" db:"is_free"`
	AgeMin      *int       `json:"age_min,omitempty" db:"age_min"`
	AgeMax      *int       `json:"age_max,omitempty" db:"age_max"`
	Location    string     `json:"location" db:"location"`
}
