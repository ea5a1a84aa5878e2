package domain

import "context"

// SearchCache stores result pages keyed by the normalized request. It is
// never a source of errors: backends that can fail treat failures as a miss
// on Get and as a no-op on Set.
type SearchCache interface {
	// Get returns the stored page, or false when absent or expired
	Get(ctx context.Context, key SearchKey) (*SearchResponse, bool)

	// Set stores the page, replacing any previous entry for the key
	Set(ctx context.Context, key SearchKey, resp *SearchResponse)

	// Ping checks if the cache is available
	Ping(ctx context.Context) error
}
