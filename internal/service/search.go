package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"localevents/internal/model"

	"go.uber.org/zap"
)

// DegradedServiceMessage is the fixed reply used when search fails
// unexpectedly. Callers still receive a well-formed result.
const DegradedServiceMessage = "Search is temporarily having trouble. Please try again in a moment."

// ContentSource supplies the two candidate collections. Implementations must
// return only approved events and active listings; the engine does not
// re-check moderation or activity flags.
type ContentSource interface {
	FetchUpcomingEvents(ctx context.Context) ([]model.SearchCandidate, error)
	FetchActiveListings(ctx context.Context) ([]model.SearchCandidate, error)
}

// InteractionTracker records best-effort view interactions.
type InteractionTracker interface {
	RecordView(ctx context.Context, userID, itemID string) error
}

// SearchOrchestrator composes parsing, fetching, filtering and composition
// into the single public search operation. It holds no mutable state; each
// call is independent.
type SearchOrchestrator struct {
	assisted QueryParser
	fallback QueryParser
	engine   *FilterEngine
	composer *ResponseComposer
	source   ContentSource
	tracker  InteractionTracker
	logger   *zap.Logger

	eventLimit   int
	listingLimit int
}

// NewSearchOrchestrator creates a new search orchestrator. assisted may be
// nil when no text-understanding service is configured; fallback must not be.
func NewSearchOrchestrator(
	assisted QueryParser,
	fallback QueryParser,
	engine *FilterEngine,
	composer *ResponseComposer,
	source ContentSource,
	tracker InteractionTracker,
	eventLimit, listingLimit int,
	logger *zap.Logger,
) *SearchOrchestrator {
	if eventLimit <= 0 {
		eventLimit = 10
	}
	if listingLimit <= 0 {
		listingLimit = 5
	}
	return &SearchOrchestrator{
		assisted:     assisted,
		fallback:     fallback,
		engine:       engine,
		composer:     composer,
		source:       source,
		tracker:      tracker,
		eventLimit:   eventLimit,
		listingLimit: listingLimit,
		logger:       logger,
	}
}

// Search turns a free-text query into a SearchResult. It never returns an
// error: parse and fetch failures degrade gracefully, and an unexpected
// internal failure yields the fixed degraded-service result.
func (o *SearchOrchestrator) Search(ctx context.Context, query string, userID *string) (result *model.SearchResult) {
	start := time.Now()
	spec := model.NewFilterSpec()

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("search failed unexpectedly", zap.Any("panic", r), zap.String("query", query))
			result = degradedResult(spec)
		}
	}()

	spec = o.parseQuery(ctx, query)

	events, listings := o.fetchCandidates(ctx, spec)

	events = o.engine.ApplyEvents(events, spec)
	listings = o.engine.ApplyListings(listings, spec)

	total := len(events) + len(listings)

	if len(events) > o.eventLimit {
		events = events[:o.eventLimit]
	}
	if len(listings) > o.listingLimit {
		listings = listings[:o.listingLimit]
	}

	message := o.composer.Compose(ctx, events, listings, query, spec, total)

	if userID != nil && len(events) > 0 {
		o.trackView(*userID, events[0].ID)
	}

	return &model.SearchResult{
		Message:      message,
		Events:       events,
		Listings:     listings,
		Filters:      spec,
		TotalMatches: total,
		Took:         time.Since(start).Milliseconds(),
	}
}

// parseQuery obtains a FilterSpec, preferring the assisted parser and
// substituting the rule-based result when it is unavailable.
func (o *SearchOrchestrator) parseQuery(ctx context.Context, query string) model.FilterSpec {
	if o.assisted != nil {
		spec, err := o.assisted.Parse(ctx, query)
		if err == nil {
			return spec
		}
		if errors.Is(err, ErrParseUnavailable) {
			o.logger.Debug("assisted parse unavailable, falling back to rules", zap.Error(err))
		} else {
			o.logger.Warn("assisted parse error, falling back to rules", zap.Error(err))
		}
	}

	spec, _ := o.fallback.Parse(ctx, query)
	return spec
}

// fetchCandidates loads both collections concurrently. A failing source is
// treated as empty and logged; it never fails the whole search.
func (o *SearchOrchestrator) fetchCandidates(ctx context.Context, spec model.FilterSpec) (events, listings []model.SearchCandidate) {
	var wg sync.WaitGroup

	if spec.IncludeEvents {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("event source panicked", zap.Any("panic", r))
					events = nil
				}
			}()
			var err error
			events, err = o.source.FetchUpcomingEvents(ctx)
			if err != nil {
				o.logger.Warn("event fetch failed, treating source as empty", zap.Error(err))
				events = nil
			}
		}()
	}

	if spec.IncludeListings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("listing source panicked", zap.Any("panic", r))
					listings = nil
				}
			}()
			var err error
			listings, err = o.source.FetchActiveListings(ctx)
			if err != nil {
				o.logger.Warn("listing fetch failed, treating source as empty", zap.Error(err))
				listings = nil
			}
		}()
	}

	wg.Wait()
	return events, listings
}

// trackView schedules a best-effort view record for the top result. It never
// blocks the response; failures are swallowed.
func (o *SearchOrchestrator) trackView(userID, itemID string) {
	if o.tracker == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.tracker.RecordView(ctx, userID, itemID); err != nil {
			o.logger.Debug("view tracking failed", zap.Error(err))
		}
	}()
}

func degradedResult(spec model.FilterSpec) *model.SearchResult {
	return &model.SearchResult{
		Message:      DegradedServiceMessage,
		Events:       []model.SearchCandidate{},
		Listings:     []model.SearchCandidate{},
		Filters:      spec,
		TotalMatches: 0,
	}
}
