package cache

import (
	"context"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

// NoOpCache is a no-operation cache implementation that does nothing
// Used when caching is disabled
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(_ context.Context, _ domain.SearchKey) (*domain.SearchResponse, bool) {
	// Always return cache miss
	return nil, false
}

func (c *NoOpCache) Set(_ context.Context, _ domain.SearchKey, _ *domain.SearchResponse) {}

func (c *NoOpCache) Ping(_ context.Context) error {
	// Always available
	return nil
}
