package service

import (
	"context"
	"fmt"
	"strings"

	"localevents/internal/model"

	"go.uber.org/zap"
)

// NoResultsMessage is returned verbatim when nothing matched.
const NoResultsMessage = "Sorry, I couldn't find anything matching that. " +
	"Try a different date, another category, or fewer keywords."

const (
	maxEventsInMessage   = 3
	maxListingsInMessage = 3
)

// ResponseComposer renders a result set into a human-readable summary. The
// deterministic template path is always available; when assisted phrasing is
// enabled it asks the chat API to say the same facts conversationally and
// falls back to the template on any failure. A message is always produced.
type ResponseComposer struct {
	client   ChatClient
	assisted bool
	logger   *zap.Logger
}

// NewResponseComposer creates a new response composer. client may be nil when
// assisted phrasing is disabled.
func NewResponseComposer(client ChatClient, assisted bool, logger *zap.Logger) *ResponseComposer {
	return &ResponseComposer{
		client:   client,
		assisted: assisted,
		logger:   logger,
	}
}

// Compose renders the message for a result set.
func (c *ResponseComposer) Compose(ctx context.Context, events, listings []model.SearchCandidate, query string, spec model.FilterSpec, total int) string {
	template := c.composeTemplate(events, listings, spec, total)

	if c.assisted && c.client != nil && c.client.IsEnabled() {
		if msg, err := c.composeAssisted(ctx, template, query); err == nil {
			return msg
		} else {
			c.logger.Warn("assisted compose failed, using template", zap.Error(err))
		}
	}

	return template
}

// composeTemplate is the deterministic path.
func (c *ResponseComposer) composeTemplate(events, listings []model.SearchCandidate, spec model.FilterSpec, total int) string {
	if len(events) == 0 && len(listings) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	b.WriteString(opener(spec.DateRange, total))

	shown := len(events)
	if shown > maxEventsInMessage {
		shown = maxEventsInMessage
	}
	for _, e := range events[:shown] {
		b.WriteString("\n• ")
		b.WriteString(e.Title)
		if e.StartDate != nil {
			b.WriteString(" — ")
			b.WriteString(e.StartDate.Format("Mon Jan 2, 3:04 PM"))
		}
		if e.Location != "" {
			b.WriteString(" at ")
			b.WriteString(e.Location)
		}
		b.WriteString(" (")
		b.WriteString(priceLabel(e))
		b.WriteString(")")
	}
	if extra := len(events) - shown; extra > 0 {
		fmt.Fprintf(&b, "\n...and %d more events.", extra)
	}

	if len(listings) > 0 {
		if len(events) > 0 {
			b.WriteString("\n\nFrom the community board:")
		}
		shown = len(listings)
		if shown > maxListingsInMessage {
			shown = maxListingsInMessage
		}
		for _, l := range listings[:shown] {
			fmt.Fprintf(&b, "\n• [%s] %s", l.Category, l.Title)
		}
	}

	return b.String()
}

// opener picks the leading phrase off the requested date window.
func opener(dr model.DateRange, total int) string {
	switch dr {
	case model.DateRangeToday:
		return "Here's what's happening today:"
	case model.DateRangeTomorrow:
		return "Here's what's happening tomorrow:"
	case model.DateRangeThisWeekend:
		return "Here's what's happening this weekend:"
	case model.DateRangeThisWeek:
		return "Here's what's happening this week:"
	case model.DateRangeNextWeek:
		return "Here's what's happening next week:"
	}
	if total == 1 {
		return "I found 1 thing you might like:"
	}
	return fmt.Sprintf("I found %d things you might like:", total)
}

func priceLabel(c model.SearchCandidate) string {
	if c.IsFree || c.Cost == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", c.Cost)
}

const composeSystemPrompt = `You are the friendly voice of a local events discovery app. Rewrite the factual summary you are given as one short, warm, conversational reply. Keep every event title, date, location and price exactly as given. Do not add events, opinions, emoji, or markdown. Respond with plain text only.`

// composeAssisted asks the chat API to phrase the template's facts
// conversationally.
func (c *ResponseComposer) composeAssisted(ctx context.Context, template, query string) (string, error) {
	user := fmt.Sprintf("The user asked: %q\n\nFactual summary:\n%s", query, template)

	msg, err := c.client.Complete(ctx, composeSystemPrompt, user, false)
	if err != nil {
		return "", err
	}

	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", fmt.Errorf("empty assisted compose response")
	}
	return msg, nil
}
