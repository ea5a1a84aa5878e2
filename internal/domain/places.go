package domain

import "context"

// Geocoder resolves free-text locations. It returns ErrLocationNotFound when
// the provider has no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// TextSearchRequest is a keyword search bounded by a circle around Center.
type TextSearchRequest struct {
	Query        string
	Center       Coordinates
	RadiusMeters int
	Type         string
}

type PlacesClient interface {
	TextSearch(ctx context.Context, req TextSearchRequest) ([]Place, error)
	PlaceDetails(ctx context.Context, placeID string) (*Place, error)
}

// PhotoURLBuilder turns a provider photo reference into a fetchable URL.
type PhotoURLBuilder interface {
	PhotoURL(reference string) string
}
