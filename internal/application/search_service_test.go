package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/bizsearch/internal/domain"
	"github.com/sp3dr4/bizsearch/internal/infrastructure/memory"
)

type searchFixture struct {
	service  *SearchService
	cache    *memory.SearchCache
	geocoder *fakeGeocoder
	places   *fakePlaces
	recorder *fakeRecorder
}

func newSearchFixture(t *testing.T, summaries int) *searchFixture {
	t.Helper()

	f := &searchFixture{
		cache:    memory.NewSearchCache(time.Minute, memory.DefaultCapacity),
		geocoder: &fakeGeocoder{coords: domain.Coordinates{Lat: 30.2672, Lng: -97.7431}},
		places:   &fakePlaces{summaries: makeSummaries(summaries)},
		recorder: &fakeRecorder{},
	}
	f.service = NewSearchService(f.cache, f.geocoder, f.places, fakePhotos{}, f.recorder, nil, nil, DefaultSearchOptions())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = f.service.Wait(ctx)
	})
	return f
}

func (f *searchFixture) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.service.Wait(ctx))
}

func TestSearchService_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		wantLen   int
		wantFirst string
	}{
		{name: "first page", page: 1, wantLen: 10, wantFirst: "place-00"},
		{name: "last page", page: 3, wantLen: 3, wantFirst: "place-20"},
		{name: "past the end", page: 4, wantLen: 0},
		{name: "page far past the end", page: 1 << 62, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSearchFixture(t, 23)

			resp, err := f.service.Search(context.Background(), SearchRequest{
				Query: "plumber", Location: "Austin, TX", Page: tt.page, Limit: 10,
			})
			require.NoError(t, err)

			assert.Equal(t, 23, resp.Total)
			assert.Equal(t, 3, resp.TotalPages)
			assert.Equal(t, tt.page, resp.Page)
			require.NotNil(t, resp.Results)
			require.Len(t, resp.Results, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, resp.Results[0].ID)
			}
		})
	}
}

func TestSearchService_Defaults(t *testing.T) {
	f := newSearchFixture(t, 23)

	resp, err := f.service.Search(context.Background(), SearchRequest{Query: "plumber", Location: "Austin"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Len(t, resp.Results, DefaultLimit)
	assert.Equal(t, DefaultRadiusMeters, f.places.lastReq.RadiusMeters)
	assert.Equal(t, DefaultPlaceType, f.places.lastReq.Type)
	assert.Equal(t, f.geocoder.coords, f.places.lastReq.Center)
}

func TestSearchService_CacheHitBypassesUpstream(t *testing.T) {
	f := newSearchFixture(t, 5)
	req := SearchRequest{Query: "Pizza", Location: "Austin, TX", Page: 1, Limit: 10}

	first, err := f.service.Search(context.Background(), req)
	require.NoError(t, err)

	// Same search, different casing and spacing.
	second, err := f.service.Search(context.Background(), SearchRequest{
		Query: "  pizza ", Location: "austin,  tx", Page: 1, Limit: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.geocoder.calls.Load())
	assert.Equal(t, int32(1), f.places.searchCalls.Load())
	assert.Equal(t, int32(5), f.places.detailCalls.Load())
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.cache.Len())
}

func TestSearchService_PagesAreCachedSeparately(t *testing.T) {
	f := newSearchFixture(t, 23)

	for _, page := range []int{1, 2} {
		_, err := f.service.Search(context.Background(), SearchRequest{
			Query: "plumber", Location: "Austin", Page: page, Limit: 10,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, int32(2), f.geocoder.calls.Load())
	assert.Equal(t, 2, f.cache.Len())
}

func TestSearchService_ValidationFailsBeforeUpstream(t *testing.T) {
	tests := []struct {
		name      string
		req       SearchRequest
		wantField string
	}{
		{name: "missing query", req: SearchRequest{Location: "Austin"}, wantField: "Query"},
		{name: "blank location", req: SearchRequest{Query: "pizza", Location: "   "}, wantField: "Location"},
		{name: "negative page", req: SearchRequest{Query: "pizza", Location: "Austin", Page: -1}, wantField: "Page"},
		{name: "negative limit", req: SearchRequest{Query: "pizza", Location: "Austin", Limit: -5}, wantField: "Limit"},
		{name: "limit above maximum", req: SearchRequest{Query: "pizza", Location: "Austin", Limit: 51}, wantField: "Limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSearchFixture(t, 3)

			_, err := f.service.Search(context.Background(), tt.req)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.NotEmpty(t, verrs)
			assert.Equal(t, tt.wantField, verrs[0].StructField())
			assert.Zero(t, f.geocoder.calls.Load())
			assert.Zero(t, f.places.searchCalls.Load())
		})
	}
}

func TestSearchService_LocationNotFound(t *testing.T) {
	f := newSearchFixture(t, 3)
	f.geocoder.err = domain.ErrLocationNotFound

	_, err := f.service.Search(context.Background(), SearchRequest{Query: "pizza", Location: "Nowhereville"})

	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
	assert.Zero(t, f.places.searchCalls.Load())
	assert.Zero(t, f.cache.Len())
}

func TestSearchService_UpstreamFailures(t *testing.T) {
	t.Run("geocoder", func(t *testing.T) {
		f := newSearchFixture(t, 3)
		f.geocoder.err = errBoom

		_, err := f.service.Search(context.Background(), SearchRequest{Query: "pizza", Location: "Austin"})

		assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
		assert.ErrorIs(t, err, errBoom)
		assert.Zero(t, f.places.searchCalls.Load())
	})

	t.Run("text search", func(t *testing.T) {
		f := newSearchFixture(t, 3)
		f.places.searchErr = errBoom

		_, err := f.service.Search(context.Background(), SearchRequest{Query: "pizza", Location: "Austin", UserID: 7})

		assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
		assert.Zero(t, f.cache.Len())
		f.drain(t)
		assert.Empty(t, f.recorder.Calls())
	})
}

func TestSearchService_DetailFailureFallsBackToSummary(t *testing.T) {
	f := newSearchFixture(t, 3)
	f.places.details = map[string]domain.Place{
		"place-00": {
			ID:      "place-00",
			Phone:   "(512) 555-0100",
			Reviews: []domain.Review{{AuthorName: "Sam", Rating: 5, Text: "Great"}},
		},
	}
	f.places.detailErrs = map[string]error{"place-01": errBoom}

	resp, err := f.service.Search(context.Background(), SearchRequest{Query: "pizza", Location: "Austin"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	enriched := resp.Results[0]
	assert.Equal(t, "Business 00", enriched.Name)
	assert.Equal(t, "(512) 555-0100", enriched.Phone)
	require.Len(t, enriched.Reviews, 1)

	fallback := resp.Results[1]
	assert.Equal(t, "place-01", fallback.ID)
	assert.Equal(t, "Business 01", fallback.Name)
	assert.Equal(t, "1 Main St", fallback.Address)
	assert.Empty(t, fallback.Phone)
	assert.NotNil(t, fallback.Reviews)
	assert.Equal(t, []string{"https://photos.test/ref-01"}, fallback.Photos)
}

func TestSearchService_RecordsHistoryForAuthenticatedUsers(t *testing.T) {
	f := newSearchFixture(t, 3)
	req := SearchRequest{Query: "pizza", Location: "Austin", UserID: 42}

	_, err := f.service.Search(context.Background(), req)
	require.NoError(t, err)
	// Cache hit still counts as a search.
	_, err = f.service.Search(context.Background(), req)
	require.NoError(t, err)

	f.drain(t)
	assert.Equal(t, []string{"42|pizza|Austin", "42|pizza|Austin"}, f.recorder.Calls())
}

func TestSearchService_AnonymousSearchSkipsHistory(t *testing.T) {
	f := newSearchFixture(t, 3)

	_, err := f.service.Search(context.Background(), SearchRequest{Query: "pizza", Location: "Austin"})
	require.NoError(t, err)

	f.drain(t)
	assert.Empty(t, f.recorder.Calls())
}

func TestSearchService_HistoryFailureDoesNotFailSearch(t *testing.T) {
	tests := []struct {
		name     string
		recorder *fakeRecorder
	}{
		{name: "error", recorder: &fakeRecorder{err: errors.New("database is locked")}},
		{name: "panic", recorder: &fakeRecorder{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSearchFixture(t, 3)
			f.recorder = tt.recorder
			f.service.history = tt.recorder

			resp, err := f.service.Search(context.Background(), SearchRequest{Query: "pizza", Location: "Austin", UserID: 1})
			require.NoError(t, err)
			assert.Len(t, resp.Results, 3)

			f.drain(t)
			assert.Len(t, tt.recorder.Calls(), 1)
		})
	}
}

func TestSearchService_HistoryOutlivesRequestContext(t *testing.T) {
	f := newSearchFixture(t, 1)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := f.service.Search(ctx, SearchRequest{Query: "pizza", Location: "Austin", UserID: 9})
	require.NoError(t, err)
	cancel()

	f.drain(t)
	assert.Len(t, f.recorder.Calls(), 1)
}

func TestSearchService_ConcurrentIdenticalSearches(t *testing.T) {
	f := newSearchFixture(t, 12)
	req := SearchRequest{Query: "pizza", Location: "Austin", Page: 2, Limit: 5}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*domain.SearchResponse, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = f.service.Search(context.Background(), req)
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, 12, results[i].Total)
		assert.Len(t, results[i].Results, 5)
	}
	assert.LessOrEqual(t, f.geocoder.calls.Load(), int32(callers))
	assert.Equal(t, 1, f.cache.Len())
}

func TestSearchService_CustomMaxLimit(t *testing.T) {
	opts := DefaultSearchOptions()
	opts.MaxLimit = 20
	service := NewSearchService(
		memory.NewSearchCache(time.Minute, 10),
		&fakeGeocoder{},
		&fakePlaces{summaries: makeSummaries(30)},
		fakePhotos{},
		nil, nil, nil, opts,
	)

	_, err := service.Search(context.Background(), SearchRequest{Query: "a", Location: "b", Limit: 21})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "max", verrs[0].Tag())
	assert.Equal(t, "20", verrs[0].Param())

	resp, err := service.Search(context.Background(), SearchRequest{Query: "a", Location: "b", Limit: 20})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 20)
}

func TestSearchService_CallerCancellationDoesNotDegradeCachedPage(t *testing.T) {
	f := newSearchFixture(t, 3)
	f.places.details = map[string]domain.Place{
		"place-00": {ID: "place-00", Phone: "(512) 555-0100", Reviews: []domain.Review{{AuthorName: "Sam", Rating: 5}}},
		"place-01": {ID: "place-01", Phone: "(512) 555-0101"},
		"place-02": {ID: "place-02", Phone: "(512) 555-0102"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// The client disconnects while the detail lookups are still pending.
	f.places.afterSearch = cancel

	req := SearchRequest{Query: "plumber", Location: "Austin"}
	_, err := f.service.Search(ctx, req)
	require.NoError(t, err)

	f.places.afterSearch = nil
	resp, err := f.service.Search(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.places.searchCalls.Load())
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "(512) 555-0100", resp.Results[0].Phone)
	assert.Len(t, resp.Results[0].Reviews, 1)
	assert.Equal(t, "(512) 555-0102", resp.Results[2].Phone)
}
