package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

// SearchCache stores result pages in Redis and relies on key expiry for the
// TTL. Redis failures are logged and degrade to a miss.
type SearchCache struct {
	client redis.Cmdable
	logger *slog.Logger
	ttl    time.Duration
	prefix string
}

func NewSearchCache(client redis.Cmdable, ttl time.Duration, prefix string, logger *slog.Logger) *SearchCache {
	return &SearchCache{
		client: client,
		logger: logger,
		ttl:    ttl,
		prefix: prefix,
	}
}

func (c *SearchCache) Get(ctx context.Context, key domain.SearchKey) (*domain.SearchResponse, bool) {
	redisKey := c.buildKey(key)

	val, err := c.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error("Failed to get from cache", "key", redisKey, "error", err)
		}
		return nil, false
	}

	var resp domain.SearchResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		c.logger.Error("Failed to unmarshal cached value", "key", redisKey, "error", err)
		return nil, false
	}

	return &resp, true
}

func (c *SearchCache) Set(ctx context.Context, key domain.SearchKey, resp *domain.SearchResponse) {
	if resp == nil {
		return
	}
	redisKey := c.buildKey(key)

	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("Failed to marshal search response for cache", "key", redisKey, "error", err)
		return
	}

	if err := c.client.Set(ctx, redisKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to set cache", "key", redisKey, "error", err)
	}
}

func (c *SearchCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.Error("Failed to ping Redis", "error", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// buildKey hashes the normalized key so arbitrary user text never ends up
// verbatim in the Redis keyspace.
func (c *SearchCache) buildKey(key domain.SearchKey) string {
	sum := sha256.Sum256([]byte(key.String()))
	return fmt.Sprintf("%s:%s", c.prefix, hex.EncodeToString(sum[:]))
}
