package googlemaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

const testAPIKey = "test-key"

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != testAPIKey {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(Options{APIKey: testAPIKey, BaseURL: srv.URL, PhotoMaxWidth: 320})
}

func TestClient_Geocode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    domain.Coordinates
		wantErr error
	}{
		{
			name: "first result wins",
			body: `{"status":"OK","results":[
				{"geometry":{"location":{"lat":30.2672,"lng":-97.7431}}},
				{"geometry":{"location":{"lat":1,"lng":1}}}]}`,
			want: domain.Coordinates{Lat: 30.2672, Lng: -97.7431},
		},
		{
			name:    "zero results",
			body:    `{"status":"ZERO_RESULTS","results":[]}`,
			wantErr: domain.ErrLocationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, map[string]string{"/geocode/json": tt.body})
			got, err := newTestClient(srv).Geocode(context.Background(), "Austin, TX")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_GeocodeAPIError(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/geocode/json": `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`,
	})

	_, err := newTestClient(srv).Geocode(context.Background(), "Austin")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrLocationNotFound)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestClient_TextSearch(t *testing.T) {
	var captured url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		_, _ = w.Write([]byte(`{"status":"OK","results":[{
			"place_id":"abc","name":"Ace Plumbing","formatted_address":"1 Main St",
			"rating":4.6,"user_ratings_total":87,
			"photos":[{"photo_reference":"ref-1"},{"photo_reference":""}],
			"geometry":{"location":{"lat":30.1,"lng":-97.2}}}]}`))
	}))
	defer srv.Close()

	places, err := newTestClient(srv).TextSearch(context.Background(), domain.TextSearchRequest{
		Query:        "plumber",
		Center:       domain.Coordinates{Lat: 30.2672, Lng: -97.7431},
		RadiusMeters: 50000,
		Type:         "establishment",
	})
	require.NoError(t, err)
	require.Len(t, places, 1)

	assert.Equal(t, "plumber", captured.Get("query"))
	assert.Equal(t, "30.267200,-97.743100", captured.Get("location"))
	assert.Equal(t, "50000", captured.Get("radius"))
	assert.Equal(t, "establishment", captured.Get("type"))

	p := places[0]
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "Ace Plumbing", p.Name)
	assert.Equal(t, 87, p.ReviewCount)
	assert.Equal(t, []string{"ref-1"}, p.PhotoReferences)
	assert.Equal(t, domain.Coordinates{Lat: 30.1, Lng: -97.2}, p.Location)
}

func TestClient_TextSearchZeroResults(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/place/textsearch/json": `{"status":"ZERO_RESULTS","results":[]}`})

	places, err := newTestClient(srv).TextSearch(context.Background(), domain.TextSearchRequest{Query: "x"})
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestClient_PlaceDetails(t *testing.T) {
	srv := newTestServer(t, map[string]string{"/place/details/json": `{"status":"OK","result":{
		"place_id":"abc","name":"Ace Plumbing","formatted_address":"1 Main St",
		"formatted_phone_number":"(512) 555-0100","rating":4.6,"user_ratings_total":87,
		"geometry":{"location":{"lat":30.1,"lng":-97.2}},
		"reviews":[{"author_name":"Sam","rating":5,"text":"Fast","time":1700000000}]}}`})

	place, err := newTestClient(srv).PlaceDetails(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "(512) 555-0100", place.Phone)
	require.Len(t, place.Reviews, 1)
	assert.Equal(t, domain.Review{AuthorName: "Sam", Rating: 5, Text: "Fast", Time: 1700000000}, place.Reviews[0])
}

func TestClient_PlaceDetailsHTTPError(t *testing.T) {
	srv := newTestServer(t, map[string]string{})

	_, err := newTestClient(srv).PlaceDetails(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_HTTPErrorOmitsResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream proxy internals</html>"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).TextSearch(context.Background(), domain.TextSearchRequest{Query: "x"})
	require.Error(t, err)
	assert.Equal(t, "place/textsearch returned status 502", err.Error())
}

func TestClient_TransportErrorHidesKey(t *testing.T) {
	srv := newTestServer(t, map[string]string{})
	client := newTestClient(srv)
	srv.Close()

	_, err := client.Geocode(context.Background(), "Austin")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testAPIKey)
}

func TestClient_PhotoURL(t *testing.T) {
	client := NewClient(Options{APIKey: "k", BaseURL: "https://maps.example.com/api/"})

	got := client.PhotoURL("ref 1")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/api/place/photo", u.Path)
	assert.Equal(t, "400", u.Query().Get("maxwidth"))
	assert.Equal(t, "ref 1", u.Query().Get("photo_reference"))
	assert.Equal(t, "k", u.Query().Get("key"))
}
