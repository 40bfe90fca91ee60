package service

import (
	"context"
	"reflect"
	"testing"

	"localevents/internal/model"
)

func TestRuleBasedParser_DateDetection(t *testing.T) {
	parser := NewRuleBasedParser()

	tests := []struct {
		name  string
		query string
		want  model.DateRange
	}{
		{
			name:  "today",
			query: "whats happening today",
			want:  model.DateRangeToday,
		},
		{
			name:  "tomorrow",
			query: "anything fun tomorrow",
			want:  model.DateRangeTomorrow,
		},
		{
			name:  "this weekend",
			query: "concerts this weekend",
			want:  model.DateRangeThisWeekend,
		},
		{
			name:  "bare weekend",
			query: "weekend plans",
			want:  model.DateRangeThisWeekend,
		},
		{
			name:  "this week",
			query: "events this week",
			want:  model.DateRangeThisWeek,
		},
		{
			name:  "next week",
			query: "garage sales next week",
			want:  model.DateRangeNextWeek,
		},
		{
			name:  "weekend beats week",
			query: "what a week, any weekend plans",
			want:  model.DateRangeThisWeekend,
		},
		{
			name:  "today beats weekend",
			query: "today or this weekend",
			want:  model.DateRangeToday,
		},
		{
			name:  "no date phrase",
			query: "live music downtown",
			want:  model.DateRangeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := parser.Parse(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if spec.DateRange != tt.want {
				t.Errorf("DateRange = %q, want %q", spec.DateRange, tt.want)
			}
		})
	}
}

func TestRuleBasedParser_Categories(t *testing.T) {
	parser := NewRuleBasedParser()

	tests := []struct {
		name           string
		query          string
		wantCategories []string
		wantTypes      []string
	}{
		{
			name:           "full label",
			query:          "any nightlife around",
			wantCategories: []string{"Nightlife"},
		},
		{
			name:           "label head before ampersand",
			query:          "arts stuff downtown",
			wantCategories: []string{"Arts & Culture"},
		},
		{
			name:           "kids synonym",
			query:          "something for the kids",
			wantCategories: []string{"Family & Kids"},
		},
		{
			name:           "music synonyms",
			query:          "live music",
			wantCategories: []string{"Music & Concerts"},
		},
		{
			name:           "food synonym",
			query:          "good restaurant specials",
			wantCategories: []string{"Food & Dining"},
		},
		{
			name:           "synonyms are additive",
			query:          "family food festival",
			wantCategories: []string{"Family & Kids", "Food & Dining"},
		},
		{
			name:      "garage sale listing type",
			query:     "garage sale listings",
			wantTypes: []string{"Garage Sales"},
		},
		{
			name:      "volunteer listing type",
			query:     "volunteer opportunities",
			wantTypes: []string{"Volunteering"},
		},
		{
			name:  "no category",
			query: "what is going on tonight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := parser.Parse(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			for _, want := range tt.wantCategories {
				if !spec.HasCategory(want) {
					t.Errorf("Categories = %v, want to contain %q", spec.Categories, want)
				}
			}
			if len(tt.wantCategories) == 0 && len(spec.Categories) != 0 {
				t.Errorf("Categories = %v, want none", spec.Categories)
			}
			for _, want := range tt.wantTypes {
				if !spec.HasListingType(want) {
					t.Errorf("ListingTypes = %v, want to contain %q", spec.ListingTypes, want)
				}
			}
		})
	}
}

func TestRuleBasedParser_FreeAndKeywords(t *testing.T) {
	parser := NewRuleBasedParser()

	tests := []struct {
		name         string
		query        string
		wantFree     bool
		wantKeywords []string
	}{
		{
			name:     "free detection",
			query:    "free family activities this weekend",
			wantFree: true,
			// every token is consumed as filter signal or noise
			wantKeywords: nil,
		},
		{
			name:         "residual keywords in order",
			query:        "outdoor yoga in the park",
			wantKeywords: []string{"outdoor", "yoga", "park"},
		},
		{
			name:         "short and noise tokens dropped",
			query:        "whats happening in lethbridge",
			wantKeywords: nil,
		},
		{
			name:         "consumed synonym not a keyword",
			query:        "live music tonight",
			wantKeywords: []string{"tonight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := parser.Parse(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if spec.IsFree != tt.wantFree {
				t.Errorf("IsFree = %t, want %t", spec.IsFree, tt.wantFree)
			}
			if !reflect.DeepEqual(spec.Keywords, tt.wantKeywords) {
				t.Errorf("Keywords = %v, want %v", spec.Keywords, tt.wantKeywords)
			}
		})
	}
}

func TestRuleBasedParser_Defaults(t *testing.T) {
	parser := NewRuleBasedParser()

	for _, query := range []string{"", "   ", "zzqy xk"} {
		spec, err := parser.Parse(context.Background(), query)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", query, err)
		}

		if spec.DateRange != model.DateRangeNone {
			t.Errorf("Parse(%q) DateRange = %q, want none", query, spec.DateRange)
		}
		if !spec.IncludeEvents || !spec.IncludeListings {
			t.Errorf("Parse(%q) should include both sources by default", query)
		}
		if spec.IsFree || spec.MaxPrice != nil || spec.AgeRange != nil {
			t.Errorf("Parse(%q) set optional fields on an unrecognizable query", query)
		}
		if len(spec.Categories) != 0 || len(spec.ListingTypes) != 0 {
			t.Errorf("Parse(%q) detected categories in an unrecognizable query", query)
		}
	}
}

func TestRuleBasedParser_Idempotent(t *testing.T) {
	parser := NewRuleBasedParser()
	query := "free family activities this weekend"

	first, _ := parser.Parse(context.Background(), query)
	second, _ := parser.Parse(context.Background(), query)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parses differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
