package service

import (
	"sort"
	"strings"
	"time"

	"localevents/internal/model"
)

// FilterEngine applies a FilterSpec to candidate collections. It performs no
// I/O and is deterministic given the same reference time, which is injected
// so tests can pin "now".
type FilterEngine struct {
	now func() time.Time
}

// NewFilterEngine creates a filter engine. A nil now function defaults to
// time.Now.
func NewFilterEngine(now func() time.Time) *FilterEngine {
	if now == nil {
		now = time.Now
	}
	return &FilterEngine{now: now}
}

// ApplyEvents filters organizer events; category membership is tested against
// the spec's event categories.
func (e *FilterEngine) ApplyEvents(candidates []model.SearchCandidate, spec model.FilterSpec) []model.SearchCandidate {
	return e.apply(candidates, spec, spec.Categories)
}

// ApplyListings filters community listings; membership is tested against the
// spec's listing types.
func (e *FilterEngine) ApplyListings(candidates []model.SearchCandidate, spec model.FilterSpec) []model.SearchCandidate {
	return e.apply(candidates, spec, spec.ListingTypes)
}

// apply keeps candidates matching every active criterion (strict AND), then
// orders them by ascending start date with undated candidates last. There is
// no relevance score beyond the boolean predicate.
func (e *FilterEngine) apply(candidates []model.SearchCandidate, spec model.FilterSpec, taxonomy []string) []model.SearchCandidate {
	now := e.now()

	matched := make([]model.SearchCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !matchesDate(c, spec.DateRange, now) {
			continue
		}
		if !matchesTaxonomy(c, taxonomy) {
			continue
		}
		if !matchesAge(c, spec.AgeRange) {
			continue
		}
		if spec.IsFree && !c.IsFree {
			continue
		}
		if spec.MaxPrice != nil && c.Cost > *spec.MaxPrice {
			continue
		}
		if !matchesKeywords(c, spec.Keywords) {
			continue
		}
		matched = append(matched, c)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].StartDate, matched[j].StartDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	return matched
}

// matchesDate tests the candidate's start against the requested window.
// Candidates with no start date are not time-bound and are never excluded by
// a date criterion.
func matchesDate(c model.SearchCandidate, dr model.DateRange, now time.Time) bool {
	if dr == "" || dr == model.DateRangeNone {
		return true
	}
	if c.StartDate == nil {
		return true
	}
	s := *c.StartDate

	switch dr {
	case model.DateRangeToday:
		return within(s, now, now.Add(24*time.Hour))
	case model.DateRangeTomorrow:
		return within(s, now.Add(24*time.Hour), now.Add(48*time.Hour))
	case model.DateRangeThisWeek:
		// Rolling seven-day window, not the remainder of the calendar week.
		return within(s, now, now.Add(7*24*time.Hour))
	case model.DateRangeNextWeek:
		return within(s, now.Add(7*24*time.Hour), now.Add(14*24*time.Hour))
	case model.DateRangeThisWeekend:
		from, to := weekendWindow(now)
		return !s.Before(from) && !s.After(to)
	}
	return true
}

// within tests the half-open interval [from, to).
func within(s, from, to time.Time) bool {
	return !s.Before(from) && s.Before(to)
}

// weekendWindow returns [Friday 18:00, Sunday 23:59:59] for the weekend now
// belongs to. Monday through Friday anchor on the upcoming (or current)
// Friday; Saturday and Sunday anchor back on the Friday already passed, so a
// weekend in progress still matches.
func weekendWindow(now time.Time) (time.Time, time.Time) {
	offset := int(time.Friday) - int(now.Weekday())
	if now.Weekday() == time.Sunday {
		offset = -2
	}

	y, m, d := now.Date()
	from := time.Date(y, m, d+offset, 18, 0, 0, 0, now.Location())
	to := time.Date(y, m, d+offset+2, 23, 59, 59, 0, now.Location())
	return from, to
}

// matchesTaxonomy tests set membership; an empty filter set matches all.
func matchesTaxonomy(c model.SearchCandidate, taxonomy []string) bool {
	if len(taxonomy) == 0 {
		return true
	}
	for _, t := range taxonomy {
		if c.Category == t {
			return true
		}
	}
	return false
}

// matchesAge excludes a candidate only when the requested age falls strictly
// outside its declared band. Candidates without an age band always pass.
func matchesAge(c model.SearchCandidate, age *int) bool {
	if age == nil {
		return true
	}
	if c.AgeMin != nil && *age < *c.AgeMin {
		return false
	}
	if c.AgeMax != nil && *age > *c.AgeMax {
		return false
	}
	return true
}

// matchesKeywords requires at least one keyword to appear in the title or
// description (OR within keywords, AND with everything else).
func matchesKeywords(c model.SearchCandidate, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	title := strings.ToLower(c.Title)
	desc := strings.ToLower(c.Description)
	for _, k := range keywords {
		if strings.Contains(title, k) || strings.Contains(desc, k) {
			return true
		}
	}
	return false
}
