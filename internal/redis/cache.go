package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"screener-api/internal/observability"
	"screener-api/internal/upstream"
)

const keyPrefix = "cache:"

// Cache is a cache-aside upstream.Fetcher. Only successful bodies are stored.
// Redis failures bypass the cache, they never fail the call.
type Cache struct {
	rdb     *redis.Client
	next    upstream.Fetcher
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewCache(rdb *redis.Client, next upstream.Fetcher, logger *zap.Logger, m *observability.Metrics) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, next: next, logger: logger.With(zap.String("component", "cache")), metrics: m}
}

func (c *Cache) key(r upstream.Request) string { return keyPrefix + r.URL }

func (c *Cache) Fetch(ctx context.Context, r upstream.Request) ([]byte, error) {
	if r.TTL <= 0 {
		return c.next.Fetch(ctx, r)
	}

	key := c.key(r)
	cached, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		c.metrics.ObserveCache(r.Provider, r.Endpoint, "hit")
		return cached, nil
	case errors.Is(err, redis.Nil):
		c.metrics.ObserveCache(r.Provider, r.Endpoint, "miss")
	default:
		c.metrics.ObserveCache(r.Provider, r.Endpoint, "error")
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	body, err := c.next.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	if err := c.rdb.Set(ctx, key, body, r.TTL).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return body, nil
}
