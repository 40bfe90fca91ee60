package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"localevents/internal/model"

	"go.uber.org/zap"
)

// stubChat implements ChatClient with canned responses.
type stubChat struct {
	content string
	err     error
	enabled bool
}

func (s *stubChat) Complete(_ context.Context, _, _ string, _ bool) (string, error) {
	return s.content, s.err
}

func (s *stubChat) IsEnabled() bool {
	return s.enabled
}

func newTestAssistedParser(client ChatClient) *AssistedParser {
	return NewAssistedParser(client, 2*time.Second, zap.NewNop())
}

func TestAssistedParser_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		client ChatClient
	}{
		{
			name:   "nil client",
			client: nil,
		},
		{
			name:   "disabled client",
			client: &stubChat{enabled: false},
		},
		{
			name:   "transport error",
			client: &stubChat{enabled: true, err: errors.New("connection refused")},
		},
		{
			name:   "unparsable output",
			client: &stubChat{enabled: true, content: "I'm sorry, I can't help with that."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := newTestAssistedParser(tt.client)

			_, err := parser.Parse(context.Background(), "free things this weekend")
			if !errors.Is(err, ErrParseUnavailable) {
				t.Errorf("err = %v, want ErrParseUnavailable", err)
			}
		})
	}
}

func TestAssistedParser_WellFormedResponse(t *testing.T) {
	client := &stubChat{
		enabled: true,
		content: `{"date_range": "this_weekend", "categories": ["Family & Kids"], "is_free": true, "max_price": 20, "keywords": ["Puppet Show"]}`,
	}
	parser := newTestAssistedParser(client)

	spec, err := parser.Parse(context.Background(), "free family stuff this weekend under 20")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if spec.DateRange != model.DateRangeThisWeekend {
		t.Errorf("DateRange = %q, want this_weekend", spec.DateRange)
	}
	if !spec.HasCategory("Family & Kids") {
		t.Errorf("Categories = %v, want Family & Kids", spec.Categories)
	}
	if !spec.IsFree {
		t.Error("IsFree = false, want true")
	}
	if spec.MaxPrice == nil || *spec.MaxPrice != 20 {
		t.Errorf("MaxPrice = %v, want 20", spec.MaxPrice)
	}
	// keywords are normalized to lowercase
	if len(spec.Keywords) != 1 || spec.Keywords[0] != "puppet show" {
		t.Errorf("Keywords = %v, want [puppet show]", spec.Keywords)
	}
	if !spec.IncludeEvents || !spec.IncludeListings {
		t.Error("unspecified include flags must default to true")
	}
}

func TestAssistedParser_FencedResponse(t *testing.T) {
	client := &stubChat{
		enabled: true,
		content: "Here are the filters:\n```json\n{\"date_range\": \"today\"}\n```",
	}
	parser := newTestAssistedParser(client)

	spec, err := parser.Parse(context.Background(), "what's on today")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if spec.DateRange != model.DateRangeToday {
		t.Errorf("DateRange = %q, want today", spec.DateRange)
	}
}

func TestAssistedParser_RejectsUnknownValues(t *testing.T) {
	client := &stubChat{
		enabled: true,
		content: `{"date_range": "someday", "categories": ["Family & Kids", "Cryptozoology"], "listing_types": ["Timeshares"], "max_price": -5, "age_range": 42}`,
	}
	parser := newTestAssistedParser(client)

	spec, err := parser.Parse(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if spec.DateRange != model.DateRangeNone {
		t.Errorf("unknown date_range should default to none, got %q", spec.DateRange)
	}
	if len(spec.Categories) != 1 || spec.Categories[0] != "Family & Kids" {
		t.Errorf("Categories = %v, want only Family & Kids", spec.Categories)
	}
	if len(spec.ListingTypes) != 0 {
		t.Errorf("ListingTypes = %v, want none", spec.ListingTypes)
	}
	if spec.MaxPrice != nil {
		t.Errorf("negative max_price should be rejected, got %v", *spec.MaxPrice)
	}
	if spec.AgeRange != nil {
		t.Errorf("out-of-range age_range should be rejected, got %v", *spec.AgeRange)
	}
}
