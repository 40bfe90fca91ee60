package service

import (
	"context"
	"strings"
	"unicode"

	"localevents/internal/model"
)

// RuleBasedParser extracts a FilterSpec from query text with no external
// calls. It never fails and serves as the fallback strategy when assisted
// parsing is unavailable.
type RuleBasedParser struct{}

// NewRuleBasedParser creates a new rule-based parser
func NewRuleBasedParser() *RuleBasedParser {
	return &RuleBasedParser{}
}

var _ QueryParser = (*RuleBasedParser)(nil)

// stopwords are articles, prepositions, filter words consumed by date/price
// detection, and app-specific noise that carries no search signal.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "but": {}, "for": {}, "with": {}, "near": {},
	"any": {}, "some": {}, "are": {}, "was": {}, "what": {}, "whats": {},
	"show": {}, "find": {}, "looking": {}, "want": {}, "there": {},
	"this": {}, "that": {}, "next": {}, "around": {}, "going": {},
	"today": {}, "tomorrow": {}, "week": {}, "weekend": {}, "free": {},
	"lethbridge": {}, "events": {}, "event": {}, "happening": {},
	"things": {}, "stuff": {}, "activities": {}, "activity": {},
	"listings": {}, "listing": {},
}

// categorySynonyms maps domain terms to event categories. Matches are
// additive: they add a category without removing any already detected.
var categorySynonyms = []struct {
	category string
	terms    []string
}{
	{"Family & Kids", []string{"kids", "kid", "children", "child", "family"}},
	{"Music & Concerts", []string{"music", "concert", "concerts", "live", "band", "gig"}},
	{"Food & Dining", []string{"food", "dining", "restaurant", "restaurants", "eat"}},
}

// listingSynonyms does the same for community listing types.
var listingSynonyms = []struct {
	listingType string
	terms       []string
}{
	{"Garage Sales", []string{"garage", "yard"}},
	{"Classes & Workshops", []string{"class", "classes", "workshop", "workshops", "lesson", "lessons"}},
	{"Volunteering", []string{"volunteer", "volunteering"}},
}

// Parse extracts structured filters from a natural language query. The error
// is always nil; the signature satisfies QueryParser.
func (p *RuleBasedParser) Parse(_ context.Context, query string) (model.FilterSpec, error) {
	spec := model.NewFilterSpec()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return spec, nil
	}

	spec.DateRange = detectDateRange(q)

	if containsToken(q, "free") {
		spec.IsFree = true
	}

	tokens := tokenize(q)
	consumed := make(map[string]struct{})

	// Category labels: match the full lower-cased label, or the portion
	// before the "&" for labels like "Family & Kids".
	for _, label := range model.EventCategories {
		if labelMatches(q, label) {
			spec.Categories = appendUnique(spec.Categories, label)
		}
	}
	for _, label := range model.ListingTypes {
		if labelMatches(q, label) {
			spec.ListingTypes = appendUnique(spec.ListingTypes, label)
		}
	}

	// Synonym boosts. Terms that map to a category are filter signal and do
	// not double as residual keywords.
	for _, syn := range categorySynonyms {
		for _, term := range syn.terms {
			if _, ok := tokens[term]; ok {
				spec.Categories = appendUnique(spec.Categories, syn.category)
				consumed[term] = struct{}{}
			}
		}
	}
	for _, syn := range listingSynonyms {
		for _, term := range syn.terms {
			if _, ok := tokens[term]; ok {
				spec.ListingTypes = appendUnique(spec.ListingTypes, syn.listingType)
				consumed[term] = struct{}{}
			}
		}
	}

	// Residual keywords, in query order.
	for _, tok := range splitTokens(q) {
		if len(tok) <= 2 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := consumed[tok]; ok {
			continue
		}
		spec.Keywords = appendUnique(spec.Keywords, tok)
	}

	return spec, nil
}

// detectDateRange scans for literal date phrases. First match wins; weekend
// phrases outrank the bare "week" substring, and "next week" is tested before
// "week" so it cannot be swallowed by the this-week match.
func detectDateRange(q string) model.DateRange {
	switch {
	case strings.Contains(q, "today"):
		return model.DateRangeToday
	case strings.Contains(q, "tomorrow"):
		return model.DateRangeTomorrow
	case strings.Contains(q, "this weekend"), strings.Contains(q, "weekend"):
		return model.DateRangeThisWeekend
	case strings.Contains(q, "next week"):
		return model.DateRangeNextWeek
	case strings.Contains(q, "this week"), strings.Contains(q, "week"):
		return model.DateRangeThisWeek
	}
	return model.DateRangeNone
}

// labelMatches reports whether the query mentions a taxonomy label, either in
// full or by the portion before an "&" or "-" separator.
func labelMatches(q, label string) bool {
	l := strings.ToLower(label)
	if strings.Contains(q, l) {
		return true
	}
	for _, sep := range []string{"&", "-"} {
		if i := strings.Index(l, sep); i > 0 {
			head := strings.TrimSpace(l[:i])
			if head != "" && strings.Contains(q, head) {
				return true
			}
		}
	}
	return false
}

func splitTokens(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func tokenize(q string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range splitTokens(q) {
		set[tok] = struct{}{}
	}
	return set
}

func containsToken(q, token string) bool {
	for _, tok := range splitTokens(q) {
		if tok == token {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
