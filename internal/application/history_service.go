package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

const (
	SuggestionQuery    = "query"
	SuggestionLocation = "location"

	MaxSuggestions = 5
)

type SuggestionRequest struct {
	Type  string `json:"type" validate:"required,oneof=query location"`
	Input string `json:"input" validate:"max=200"`
}

// HistoryService records searches and derives autocomplete suggestions from
// a user's past searches.
type HistoryService struct {
	repo     domain.SearchHistoryRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewHistoryService(repo domain.SearchHistoryRepository) *HistoryService {
	return &HistoryService{
		repo:     repo,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *HistoryService) Record(ctx context.Context, userID int64, query, location string) error {
	record := &domain.SearchHistoryRecord{
		UserID:    userID,
		Query:     strings.TrimSpace(query),
		Location:  strings.TrimSpace(location),
		CreatedAt: s.now(),
	}

	if _, err := s.repo.RecordSearch(ctx, record); err != nil {
		return fmt.Errorf("record search for user %d: %w", userID, err)
	}
	return nil
}

func (s *HistoryService) List(ctx context.Context, userID int64) ([]domain.SearchHistoryRecord, error) {
	records, err := s.repo.ListSearchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.SearchHistoryRecord{}
	}
	return records, nil
}

type suggestion struct {
	value    string
	count    int
	lastUsed time.Time
}

// Suggestions returns up to MaxSuggestions distinct past values of the
// requested field containing input, case-insensitively. Values used more
// often come first, ties go to the most recently used.
func (s *HistoryService) Suggestions(ctx context.Context, userID int64, req SuggestionRequest) ([]string, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	records, err := s.repo.ListSearchHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(req.Input))
	byValue := make(map[string]*suggestion)

	for _, r := range records {
		value := r.Query
		if req.Type == SuggestionLocation {
			value = r.Location
		}
		if value == "" || !strings.Contains(strings.ToLower(value), needle) {
			continue
		}

		sg, ok := byValue[value]
		if !ok {
			sg = &suggestion{value: value}
			byValue[value] = sg
		}
		sg.count++
		if r.CreatedAt.After(sg.lastUsed) {
			sg.lastUsed = r.CreatedAt
		}
	}

	ranked := make([]*suggestion, 0, len(byValue))
	for _, sg := range byValue {
		ranked = append(ranked, sg)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		if !ranked[i].lastUsed.Equal(ranked[j].lastUsed) {
			return ranked[i].lastUsed.After(ranked[j].lastUsed)
		}
		return ranked[i].value < ranked[j].value
	})

	out := make([]string, 0, MaxSuggestions)
	for _, sg := range ranked {
		if len(out) == MaxSuggestions {
			break
		}
		out = append(out, sg.value)
	}
	return out, nil
}
