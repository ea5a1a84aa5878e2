package application

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sp3dr4/bizsearch/internal/domain"
	"github.com/sp3dr4/bizsearch/internal/infrastructure/memory"
)

func newHistoryServiceWithClock(repo domain.SearchHistoryRepository, start time.Time) *HistoryService {
	service := NewHistoryService(repo)
	current := start
	service.now = func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
	return service
}

func TestHistoryService_RecordAndList(t *testing.T) {
	repo := memory.NewRepository()
	service := newHistoryServiceWithClock(repo, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if err := service.Record(ctx, 1, "  pizza ", "Austin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.Record(ctx, 1, "tacos", "Dallas"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.Record(ctx, 2, "sushi", "Houston"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := service.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Query != "pizza" || records[1].Query != "tacos" {
		t.Errorf("expected oldest first with trimmed text, got %q then %q", records[0].Query, records[1].Query)
	}
	if !records[0].CreatedAt.Before(records[1].CreatedAt) {
		t.Errorf("expected ascending timestamps")
	}
}

func TestHistoryService_ListEmpty(t *testing.T) {
	service := NewHistoryService(memory.NewRepository())

	records, err := service.List(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", records)
	}
}

func TestHistoryService_Suggestions(t *testing.T) {
	repo := memory.NewRepository()
	service := newHistoryServiceWithClock(repo, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	searches := []struct{ query, location string }{
		{"pizza", "Austin, TX"},
		{"Pizza Hut", "Austin, TX"},
		{"pizza", "Dallas, TX"},
		{"plumber", "Austin, TX"},
		{"pizza", "Round Rock"},
		{"Pizza Hut", "Austin, TX"},
		{"barber", "Boston"},
		{"pizzeria", "Austin"},
		{"deep dish pizza", "Chicago"},
		{"pizza oven repair", "Austin"},
	}
	for _, s := range searches {
		if err := service.Record(ctx, 1, s.query, s.location); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	tests := []struct {
		name string
		req  SuggestionRequest
		want []string
	}{
		{
			name: "queries ranked by count then recency",
			req:  SuggestionRequest{Type: SuggestionQuery, Input: "PIZ"},
			want: []string{"pizza", "Pizza Hut", "pizza oven repair", "deep dish pizza", "pizzeria"},
		},
		{
			name: "locations",
			req:  SuggestionRequest{Type: SuggestionLocation, Input: "tx"},
			want: []string{"Austin, TX", "Dallas, TX"},
		},
		{
			name: "empty input matches everything",
			req:  SuggestionRequest{Type: SuggestionLocation},
			want: []string{"Austin, TX", "Austin", "Chicago", "Boston", "Round Rock"},
		},
		{
			name: "no match",
			req:  SuggestionRequest{Type: SuggestionQuery, Input: "dentist"},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Suggestions(ctx, 1, tt.req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHistoryService_SuggestionsInvalidType(t *testing.T) {
	service := NewHistoryService(memory.NewRepository())

	_, err := service.Suggestions(context.Background(), 1, SuggestionRequest{Type: "name", Input: "x"})

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if verrs[0].Field() != "Type" {
		t.Errorf("expected Type field error, got %s", verrs[0].Field())
	}
}
