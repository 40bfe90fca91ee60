package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"localevents/internal/model"
	"localevents/internal/utils"

	"go.uber.org/zap"
)

// AssistedParser delegates extraction to the external text-understanding
// service, constrained by a fixed instruction to the exact FilterSpec shape
// and the closed category vocabularies. Every failure mode collapses into
// ErrParseUnavailable so callers can fall back to the rule-based parser.
type AssistedParser struct {
	client  ChatClient
	timeout time.Duration
	logger  *zap.Logger
}

var _ QueryParser = (*AssistedParser)(nil)

// NewAssistedParser creates a new assisted parser. The timeout bounds every
// call so a slow upstream cannot stall the user-facing request.
func NewAssistedParser(client ChatClient, timeout time.Duration, logger *zap.Logger) *AssistedParser {
	return &AssistedParser{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// Parse extracts structured filters from a natural language query.
func (p *AssistedParser) Parse(ctx context.Context, query string) (model.FilterSpec, error) {
	spec := model.NewFilterSpec()

	if p.client == nil || !p.client.IsEnabled() {
		return spec, fmt.Errorf("%w: chat client disabled", ErrParseUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	content, err := p.client.Complete(ctx, filterSystemPrompt(), query, true)
	if err != nil {
		p.logger.Warn("assisted parse request failed", zap.Error(err))
		return spec, fmt.Errorf("%w: %v", ErrParseUnavailable, err)
	}

	var raw filterPayload
	if err := utils.DecodeLooseJSON(content, &raw); err != nil {
		p.logger.Warn("assisted parse returned unusable output",
			zap.Error(err), zap.String("content", content))
		return spec, fmt.Errorf("%w: %v", ErrParseUnavailable, err)
	}

	return raw.toSpec(), nil
}

// filterPayload is the JSON shape requested from the model. Every field is
// optional; missing fields take FilterSpec defaults and are never invented.
type filterPayload struct {
	DateRange       string   `json:"date_range,omitempty"`
	Categories      []string `json:"categories,omitempty"`
	ListingTypes    []string `json:"listing_types,omitempty"`
	IncludeEvents   *bool    `json:"include_events,omitempty"`
	IncludeListings *bool    `json:"include_listings,omitempty"`
	IsFree          *bool    `json:"is_free,omitempty"`
	MaxPrice        *float64 `json:"max_price,omitempty"`
	AgeRange        *int     `json:"age_range,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

// toSpec validates the payload against the closed vocabularies. Unknown
// labels and out-of-range values are rejected at this boundary rather than
// propagated downstream.
func (f *filterPayload) toSpec() model.FilterSpec {
	spec := model.NewFilterSpec()

	if model.ValidDateRange(f.DateRange) {
		spec.DateRange = model.DateRange(f.DateRange)
	}
	for _, c := range f.Categories {
		if model.IsEventCategory(c) {
			spec.Categories = appendUnique(spec.Categories, c)
		}
	}
	for _, t := range f.ListingTypes {
		if model.IsListingType(t) {
			spec.ListingTypes = appendUnique(spec.ListingTypes, t)
		}
	}
	if f.IncludeEvents != nil {
		spec.IncludeEvents = *f.IncludeEvents
	}
	if f.IncludeListings != nil {
		spec.IncludeListings = *f.IncludeListings
	}
	if f.IsFree != nil {
		spec.IsFree = *f.IsFree
	}
	if f.MaxPrice != nil && *f.MaxPrice >= 0 {
		spec.MaxPrice = f.MaxPrice
	}
	if f.AgeRange != nil && *f.AgeRange >= 0 && *f.AgeRange <= 18 {
		spec.AgeRange = f.AgeRange
	}
	for _, k := range f.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			spec.Keywords = appendUnique(spec.Keywords, k)
		}
	}

	return spec
}

// filterSystemPrompt is the fixed instruction describing the FilterSpec shape
// and the closed vocabularies.
func filterSystemPrompt() string {
	return fmt.Sprintf(`You are the search assistant for a local events discovery app. Parse the user's natural language query into structured search filters.

Extract the following information if present:
- date_range: one of "today", "tomorrow", "this_week", "this_weekend", "next_week"
- categories: array of event categories, each must be one of: "%s"
- listing_types: array of community listing types, each must be one of: "%s"
- include_events: false only if the user explicitly wants community listings only
- include_listings: false only if the user explicitly wants organizer events only
- is_free: true if the user asks for free things
- max_price: maximum price in dollars (number), e.g. "under $20" = 20
- age_range: a single age 0-18 if the user mentions a child's age, e.g. "for my 6 year old" = 6
- keywords: array of lowercase search terms not captured by the fields above

Important rules:
- Respond ONLY with valid JSON
- If a field is not mentioned, omit it entirely; never guess values
- Category and listing type values must come from the lists above, verbatim

Examples:
Query: "free family activities this weekend"
Response: {"date_range": "this_weekend", "categories": ["Family & Kids"], "is_free": true}

Query: "live music tonight under 20 bucks"
Response: {"date_range": "today", "categories": ["Music & Concerts"], "max_price": 20, "keywords": ["tonight"]}

Query: "garage sales next week"
Response: {"date_range": "next_week", "listing_types": ["Garage Sales"], "include_events": false}

Query: "something for my 8 year old tomorrow"
Response: {"date_range": "tomorrow", "categories": ["Family & Kids"], "age_range": 8}`,
		strings.Join(model.EventCategories, `", "`),
		strings.Join(model.ListingTypes, `", "`))
}
