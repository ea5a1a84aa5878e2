package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/sp3dr4/bizsearch/config"
)

// NewClient builds a Redis client from configuration. It does not dial.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
