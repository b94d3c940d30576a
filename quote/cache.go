package quote

import (
	"context"
	"errors"
	"time"

	"github.com/etnz/folio"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RedisClient is the subset of *redis.Client used by the cache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cached is a read-through cache of available quotes in Redis.
//
// Redis failures are logged and bypassed: the cache never makes a price
// unavailable.
type Cached struct {
	next   folio.PriceLookup
	rdb    RedisClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCached caches next's available quotes for ttl.
func NewCached(next folio.PriceLookup, rdb RedisClient, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{next: next, rdb: rdb, ttl: ttl, logger: logger.Named("quote-cache")}
}

func cacheKey(symbol string) string { return "quote:" + symbol }

// Quote implements folio.PriceLookup.
func (c *Cached) Quote(ctx context.Context, symbol string) folio.Quote {
	key := cacheKey(symbol)
	val, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if p, perr := decimal.NewFromString(val); perr == nil && p.IsPositive() {
			return folio.Found(symbol, folio.P(p))
		}
		c.logger.Warn("invalid cached quote, ignored", zap.String("key", key), zap.String("value", val))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
	}

	q := c.next.Quote(ctx, symbol)
	if !q.Available() {
		return q
	}
	if err := c.rdb.Set(ctx, key, q.Price.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
	return q
}
