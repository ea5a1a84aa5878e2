package googlemaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

const (
	DefaultBaseURL       = "https://maps.googleapis.com/maps/api"
	DefaultPhotoMaxWidth = 400
	defaultTimeout       = 10 * time.Second

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// detailFields is the field mask requested from the details endpoint.
var detailFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"formatted_phone_number",
	"rating",
	"user_ratings_total",
	"photos",
	"geometry",
	"reviews",
}

type Options struct {
	APIKey        string
	BaseURL       string
	PhotoMaxWidth int
	Timeout       time.Duration
	HTTPClient    *http.Client
}

// Client talks to the Google Geocoding and Places web services. It
// implements domain.Geocoder, domain.PlacesClient and domain.PhotoURLBuilder.
type Client struct {
	apiKey        string
	baseURL       string
	photoMaxWidth int
	httpClient    *http.Client
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.PhotoMaxWidth <= 0 {
		opts.PhotoMaxWidth = DefaultPhotoMaxWidth
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:        opts.APIKey,
		baseURL:       baseURL,
		photoMaxWidth: opts.PhotoMaxWidth,
		httpClient:    httpClient,
	}
}

// Geocode resolves address to coordinates using the first geocoding result.
func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp geocodeResponse
	if err := c.get(ctx, "geocode", params, &resp); err != nil {
		return domain.Coordinates{}, err
	}

	switch resp.Status {
	case statusOK:
	case statusZeroResults:
		return domain.Coordinates{}, domain.ErrLocationNotFound
	default:
		return domain.Coordinates{}, apiError("geocode", resp.Status, resp.ErrorMessage)
	}

	if len(resp.Results) == 0 {
		return domain.Coordinates{}, domain.ErrLocationNotFound
	}

	loc := resp.Results[0].Geometry.Location
	return domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// TextSearch runs a keyword search biased to a circle around req.Center.
func (c *Client) TextSearch(ctx context.Context, req domain.TextSearchRequest) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("location", fmt.Sprintf("%.6f,%.6f", req.Center.Lat, req.Center.Lng))
	params.Set("radius", strconv.Itoa(req.RadiusMeters))
	if req.Type != "" {
		params.Set("type", req.Type)
	}

	var resp textSearchResponse
	if err := c.get(ctx, "place/textsearch", params, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK, statusZeroResults:
	default:
		return nil, apiError("text search", resp.Status, resp.ErrorMessage)
	}

	places := make([]domain.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, r.toPlace())
	}
	return places, nil
}

// PlaceDetails fetches the extended record for one place, reviews included.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*domain.Place, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(detailFields, ","))

	var resp detailsResponse
	if err := c.get(ctx, "place/details", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != statusOK {
		return nil, apiError("place details", resp.Status, resp.ErrorMessage)
	}

	place := resp.Result.toPlace()
	if place.ID == "" {
		place.ID = placeID
	}
	return &place, nil
}

// PhotoURL builds the photo endpoint URL for a photo reference.
func (c *Client) PhotoURL(reference string) string {
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(c.photoMaxWidth))
	params.Set("photo_reference", reference)
	params.Set("key", c.apiKey)
	return c.baseURL + "/place/photo?" + params.Encode()
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	fullURL := fmt.Sprintf("%s/%s/json?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error embeds the full URL, API key included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The body stays in the logs; errors reach API clients.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.Warn("Maps API returned non-200 status",
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(body)),
		)
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func apiError(operation, status, message string) error {
	if message != "" {
		return fmt.Errorf("%s failed with status %s: %s", operation, status, message)
	}
	return fmt.Errorf("%s failed with status %s", operation, status)
}
