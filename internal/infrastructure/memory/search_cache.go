package memory

import (
	"context"
	"time"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

// SearchCache adapts TTLCache to the domain.SearchCache port.
type SearchCache struct {
	entries *TTLCache[domain.SearchResponse]
}

func NewSearchCache(ttl time.Duration, capacity int) *SearchCache {
	return &SearchCache{entries: NewTTLCache[domain.SearchResponse](ttl, capacity)}
}

// NewSearchCacheWithStore wraps an existing engine, e.g. one with a fake clock.
func NewSearchCacheWithStore(store *TTLCache[domain.SearchResponse]) *SearchCache {
	return &SearchCache{entries: store}
}

func (c *SearchCache) Get(_ context.Context, key domain.SearchKey) (*domain.SearchResponse, bool) {
	resp, ok := c.entries.Get(key.String())
	if !ok {
		return nil, false
	}
	return &resp, true
}

func (c *SearchCache) Set(_ context.Context, key domain.SearchKey, resp *domain.SearchResponse) {
	if resp == nil {
		return
	}
	c.entries.Set(key.String(), *resp)
}

func (c *SearchCache) Ping(_ context.Context) error {
	return nil
}

// Len reports the number of stored pages.
func (c *SearchCache) Len() int {
	return c.entries.Len()
}
