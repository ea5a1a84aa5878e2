package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sp3dr4/bizsearch/internal/domain"
	"github.com/sp3dr4/bizsearch/internal/pkg/logging"
	"github.com/sp3dr4/bizsearch/internal/pkg/metrics"
)

const (
	DefaultPage              = 1
	DefaultLimit             = 10
	DefaultMaxLimit          = 50
	DefaultRadiusMeters      = 50000
	DefaultPlaceType         = "establishment"
	DefaultDetailConcurrency = 5
	DefaultHistoryTimeout    = 5 * time.Second

	opGeocode      = "geocode"
	opTextSearch   = "text_search"
	opPlaceDetails = "place_details"
)

// HistoryRecorder persists one search made by an authenticated user.
type HistoryRecorder interface {
	Record(ctx context.Context, userID int64, query, location string) error
}

type SearchOptions struct {
	RadiusMeters      int
	PlaceType         string
	DefaultLimit      int
	MaxLimit          int
	DetailConcurrency int
	HistoryTimeout    time.Duration
}

func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		RadiusMeters:      DefaultRadiusMeters,
		PlaceType:         DefaultPlaceType,
		DefaultLimit:      DefaultLimit,
		MaxLimit:          DefaultMaxLimit,
		DetailConcurrency: DefaultDetailConcurrency,
		HistoryTimeout:    DefaultHistoryTimeout,
	}
}

// SearchRequest is a business search. Zero Page or Limit selects the
// default; UserID zero means an anonymous caller.
type SearchRequest struct {
	Query    string `json:"query" validate:"required,max=200"`
	Location string `json:"location" validate:"required,max=200"`
	Page     int    `json:"page" validate:"min=1"`
	Limit    int    `json:"limit" validate:"min=1"`
	UserID   int64  `json:"-"`
}

// SearchService answers business searches from the cache or, on a miss, by
// geocoding the location, running a places text search and fetching details
// for every hit.
type SearchService struct {
	cache    domain.SearchCache
	geocoder domain.Geocoder
	places   domain.PlacesClient
	photos   domain.PhotoURLBuilder
	history  HistoryRecorder
	metrics  metrics.Registry
	logger   *slog.Logger
	validate *validator.Validate
	opts     SearchOptions

	inflight singleflight.Group
	pending  sync.WaitGroup
}

func NewSearchService(
	cache domain.SearchCache,
	geocoder domain.Geocoder,
	places domain.PlacesClient,
	photos domain.PhotoURLBuilder,
	history HistoryRecorder,
	registry metrics.Registry,
	logger *slog.Logger,
	opts SearchOptions,
) *SearchService {
	defaults := DefaultSearchOptions()
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = defaults.RadiusMeters
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	if opts.DetailConcurrency <= 0 {
		opts.DetailConcurrency = defaults.DetailConcurrency
	}
	if opts.HistoryTimeout <= 0 {
		opts.HistoryTimeout = defaults.HistoryTimeout
	}
	if registry == nil {
		registry = metrics.NewNoOpRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	validate := validator.New()
	maxLimit := opts.MaxLimit
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(SearchRequest)
		if req.Limit > maxLimit {
			sl.ReportError(req.Limit, "Limit", "Limit", "max", strconv.Itoa(maxLimit))
		}
	}, SearchRequest{})

	return &SearchService{
		cache:    cache,
		geocoder: geocoder,
		places:   places,
		photos:   photos,
		history:  history,
		metrics:  registry,
		logger:   logger,
		validate: validate,
		opts:     opts,
	}
}

// Search returns one page of businesses matching req. Validation failures
// are returned as validator.ValidationErrors before any upstream call.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*domain.SearchResponse, error) {
	req = s.withDefaults(req)
	if err := s.validate.Struct(req); err != nil {
		s.metrics.RecordSearch("invalid")
		return nil, err
	}

	key := domain.NewSearchKey(req.Query, req.Location, req.Page, req.Limit)

	resp, hit := s.cache.Get(ctx, key)
	s.metrics.RecordCacheLookup(hit)

	if !hit {
		v, err, _ := s.inflight.Do(key.String(), func() (any, error) {
			// The fetch is shared by every coalesced caller and its result is
			// cached, so one caller going away must not cut it short. The
			// places client's own timeout bounds each upstream call.
			fetchCtx := context.WithoutCancel(ctx)
			if cached, ok := s.cache.Get(fetchCtx, key); ok {
				return cached, nil
			}
			fresh, err := s.fetch(fetchCtx, req)
			if err != nil {
				return nil, err
			}
			s.cache.Set(fetchCtx, key, fresh)
			return fresh, nil
		})
		if err != nil {
			s.metrics.RecordSearch(metrics.StatusError)
			return nil, err
		}
		resp = v.(*domain.SearchResponse)
	}

	s.recordHistory(ctx, req)
	s.metrics.RecordSearch(metrics.StatusSuccess)
	return resp, nil
}

// Wait blocks until background history writes finish or ctx is done.
func (s *SearchService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SearchService) withDefaults(req SearchRequest) SearchRequest {
	req.Query = strings.TrimSpace(req.Query)
	req.Location = strings.TrimSpace(req.Location)
	if req.Page == 0 {
		req.Page = DefaultPage
	}
	if req.Limit == 0 {
		req.Limit = s.opts.DefaultLimit
	}
	return req
}

func (s *SearchService) fetch(ctx context.Context, req SearchRequest) (*domain.SearchResponse, error) {
	logger := logging.FromContextOr(ctx, s.logger)

	center, err := s.geocoder.Geocode(ctx, req.Location)
	if err != nil {
		if errors.Is(err, domain.ErrLocationNotFound) {
			s.metrics.RecordUpstreamRequest(opGeocode, metrics.StatusSuccess)
			return nil, err
		}
		s.metrics.RecordUpstreamRequest(opGeocode, metrics.StatusError)
		logger.Error("Geocoding failed", "location", req.Location, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, err)
	}
	s.metrics.RecordUpstreamRequest(opGeocode, metrics.StatusSuccess)

	summaries, err := s.places.TextSearch(ctx, domain.TextSearchRequest{
		Query:        req.Query,
		Center:       center,
		RadiusMeters: s.opts.RadiusMeters,
		Type:         s.opts.PlaceType,
	})
	if err != nil {
		s.metrics.RecordUpstreamRequest(opTextSearch, metrics.StatusError)
		logger.Error("Places text search failed", "query", req.Query, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, err)
	}
	s.metrics.RecordUpstreamRequest(opTextSearch, metrics.StatusSuccess)

	businesses := s.enrich(ctx, summaries)
	results, totalPages := Paginate(businesses, req.Page, req.Limit)

	logger.Info("Search fetched from upstream",
		"query", req.Query,
		"location", req.Location,
		"total", len(businesses),
		"page", req.Page,
	)

	return &domain.SearchResponse{
		Results:    results,
		Total:      len(businesses),
		Page:       req.Page,
		TotalPages: totalPages,
	}, nil
}

// enrich fetches details for every summary concurrently. A failed lookup
// keeps the summary fields instead of failing the search. Output order
// matches input order.
func (s *SearchService) enrich(ctx context.Context, summaries []domain.Place) []domain.Business {
	logger := logging.FromContextOr(ctx, s.logger)
	businesses := make([]domain.Business, len(summaries))

	var g errgroup.Group
	g.SetLimit(s.opts.DetailConcurrency)

	for i, summary := range summaries {
		g.Go(func() error {
			place := summary
			detail, err := s.places.PlaceDetails(ctx, summary.ID)
			if err != nil {
				s.metrics.RecordUpstreamRequest(opPlaceDetails, metrics.StatusError)
				logger.Warn("Place details failed, using summary", "place_id", summary.ID, "error", err)
			} else {
				s.metrics.RecordUpstreamRequest(opPlaceDetails, metrics.StatusSuccess)
				place = mergePlace(summary, *detail)
			}
			businesses[i] = s.toBusiness(place)
			return nil
		})
	}
	_ = g.Wait()

	return businesses
}

func (s *SearchService) toBusiness(p domain.Place) domain.Business {
	photos := make([]string, 0, len(p.PhotoReferences))
	for _, ref := range p.PhotoReferences {
		photos = append(photos, s.photos.PhotoURL(ref))
	}
	reviews := p.Reviews
	if reviews == nil {
		reviews = []domain.Review{}
	}

	return domain.Business{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		Phone:       p.Phone,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		Photos:      photos,
		Location:    p.Location,
		Reviews:     reviews,
	}
}

// recordHistory writes the history entry in the background. Failures are
// logged and counted, never returned to the caller.
func (s *SearchService) recordHistory(ctx context.Context, req SearchRequest) {
	if req.UserID == 0 || s.history == nil {
		return
	}

	logger := logging.FromContextOr(ctx, s.logger)
	bgCtx := context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				s.metrics.RecordHistoryWrite(metrics.StatusError)
				logger.Error("Search history write panicked", "user_id", req.UserID, "panic", r)
			}
		}()

		writeCtx, cancel := context.WithTimeout(bgCtx, s.opts.HistoryTimeout)
		defer cancel()

		if err := s.history.Record(writeCtx, req.UserID, req.Query, req.Location); err != nil {
			s.metrics.RecordHistoryWrite(metrics.StatusError)
			logger.Warn("Failed to record search history", "user_id", req.UserID, "error", err)
			return
		}
		s.metrics.RecordHistoryWrite(metrics.StatusSuccess)
	}()
}

// mergePlace overlays the detail record on the summary, keeping summary
// values where the detail lookup left a field empty.
func mergePlace(summary, detail domain.Place) domain.Place {
	merged := summary
	if detail.Name != "" {
		merged.Name = detail.Name
	}
	if detail.Address != "" {
		merged.Address = detail.Address
	}
	if detail.Phone != "" {
		merged.Phone = detail.Phone
	}
	if detail.Rating != 0 {
		merged.Rating = detail.Rating
	}
	if detail.ReviewCount != 0 {
		merged.ReviewCount = detail.ReviewCount
	}
	if len(detail.PhotoReferences) > 0 {
		merged.PhotoReferences = detail.PhotoReferences
	}
	if detail.Location != (domain.Coordinates{}) {
		merged.Location = detail.Location
	}
	if len(detail.Reviews) > 0 {
		merged.Reviews = detail.Reviews
	}
	return merged
}
