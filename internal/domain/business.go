package domain

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Review is a single customer review attached to a business.
type Review struct {
	AuthorName string `json:"authorName"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       int64  `json:"time"` // unix seconds
}

// Business is the value returned to clients for one search hit.
type Business struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Phone       string      `json:"phone"`
	Rating      float64     `json:"rating"`
	ReviewCount int         `json:"reviewCount"`
	Photos      []string    `json:"photos"`
	Location    Coordinates `json:"location"`
	Reviews     []Review    `json:"reviews"`
}

// Place is the raw shape produced by the places provider. A text-search
// summary leaves Phone and Reviews empty; a details lookup fills them.
type Place struct {
	ID              string
	Name            string
	Address         string
	Phone           string
	Rating          float64
	ReviewCount     int
	PhotoReferences []string
	Location        Coordinates
	Reviews         []Review
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results    []Business `json:"results"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}
