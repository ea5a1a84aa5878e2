package googlemaps

import "github.com/sp3dr4/bizsearch/internal/domain"

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string   `json:"formatted_address"`
		Geometry         geometry `json:"geometry"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type review struct {
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       int64  `json:"time"`
}

type placeResult struct {
	PlaceID              string   `json:"place_id"`
	Name                 string   `json:"name"`
	FormattedAddress     string   `json:"formatted_address"`
	FormattedPhoneNumber string   `json:"formatted_phone_number"`
	Rating               float64  `json:"rating"`
	UserRatingsTotal     int      `json:"user_ratings_total"`
	Photos               []photo  `json:"photos"`
	Geometry             geometry `json:"geometry"`
	Reviews              []review `json:"reviews"`
}

type textSearchResponse struct {
	Results      []placeResult `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
}

type detailsResponse struct {
	Result       placeResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
}

func (p placeResult) toPlace() domain.Place {
	place := domain.Place{
		ID:          p.PlaceID,
		Name:        p.Name,
		Address:     p.FormattedAddress,
		Phone:       p.FormattedPhoneNumber,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingsTotal,
		Location:    domain.Coordinates{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
	}

	for _, ph := range p.Photos {
		if ph.PhotoReference != "" {
			place.PhotoReferences = append(place.PhotoReferences, ph.PhotoReference)
		}
	}
	for _, r := range p.Reviews {
		place.Reviews = append(place.Reviews, domain.Review{
			AuthorName: r.AuthorName,
			Rating:     r.Rating,
			Text:       r.Text,
			Time:       r.Time,
		})
	}

	return place
}
