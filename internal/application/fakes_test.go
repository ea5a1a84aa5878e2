package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

type fakeGeocoder struct {
	coords domain.Coordinates
	err    error
	calls  atomic.Int32
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (domain.Coordinates, error) {
	g.calls.Add(1)
	if g.err != nil {
		return domain.Coordinates{}, g.err
	}
	return g.coords, nil
}

type fakePlaces struct {
	summaries   []domain.Place
	searchErr   error
	details     map[string]domain.Place
	detailErrs  map[string]error
	searchCalls atomic.Int32
	detailCalls atomic.Int32

	// afterSearch runs once the text search has answered.
	afterSearch func()

	mu      sync.Mutex
	lastReq domain.TextSearchRequest
}

func (p *fakePlaces) TextSearch(ctx context.Context, req domain.TextSearchRequest) ([]domain.Place, error) {
	p.searchCalls.Add(1)
	p.mu.Lock()
	p.lastReq = req
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.searchErr != nil {
		return nil, p.searchErr
	}
	if p.afterSearch != nil {
		p.afterSearch()
	}
	return p.summaries, nil
}

func (p *fakePlaces) PlaceDetails(ctx context.Context, id string) (*domain.Place, error) {
	p.detailCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := p.detailErrs[id]; ok {
		return nil, err
	}
	if d, ok := p.details[id]; ok {
		return &d, nil
	}
	return &domain.Place{ID: id}, nil
}

type fakePhotos struct{}

func (fakePhotos) PhotoURL(ref string) string {
	return "https://photos.test/" + ref
}

type fakeRecorder struct {
	err   error
	panic bool

	mu    sync.Mutex
	calls []string
}

func (r *fakeRecorder) Record(_ context.Context, userID int64, query, location string) error {
	r.mu.Lock()
	r.calls = append(r.calls, fmt.Sprintf("%d|%s|%s", userID, query, location))
	r.mu.Unlock()
	if r.panic {
		panic("history store exploded")
	}
	return r.err
}

func (r *fakeRecorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

var errBoom = errors.New("boom")

func makeSummaries(n int) []domain.Place {
	places := make([]domain.Place, n)
	for i := range places {
		places[i] = domain.Place{
			ID:              fmt.Sprintf("place-%02d", i),
			Name:            fmt.Sprintf("Business %02d", i),
			Address:         fmt.Sprintf("%d Main St", i),
			Rating:          4.0,
			ReviewCount:     i,
			PhotoReferences: []string{fmt.Sprintf("ref-%02d", i)},
			Location:        domain.Coordinates{Lat: 30, Lng: -97},
		}
	}
	return places
}
