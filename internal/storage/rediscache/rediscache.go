// Package rediscache decorates a BarSource with a short-TTL read-through
// cache. A scoring pass and a training run issued close together reuse the
// same fetched window instead of hitting the upstream source twice.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savageleo254/sentinel-gold-trader/internal/interfaces"
	"github.com/savageleo254/sentinel-gold-trader/internal/logger"
	"github.com/savageleo254/sentinel-gold-trader/internal/types"
)

const keyPrefix = "sentinel:bars:"

// BarCache is a read-through decorator. Cache failures degrade to the
// underlying source; they never fail the request.
type BarCache struct {
	next   interfaces.BarSource
	client *redis.Client
	ttl    time.Duration
}

var _ interfaces.BarSource = (*BarCache)(nil)

// New wraps next with a cache of the given TTL.
func New(next interfaces.BarSource, addr string, db int, ttl time.Duration) *BarCache {
	return &BarCache{
		next: next,
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		}),
		ttl: ttl,
	}
}

func (c *BarCache) RecentBars(ctx context.Context, symbol, timeframe string, n int) ([]types.Bar, error) {
	key := fmt.Sprintf("%s%s:%s:%d", keyPrefix, symbol, timeframe, n)

	raw, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var bars []types.Bar
		if err := json.Unmarshal([]byte(raw), &bars); err == nil {
			logger.Debug(ctx, "Bar cache hit", "key", key, "count", len(bars))
			return bars, nil
		}
		// Poisoned entry, drop it and fall through to the source.
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn(ctx, "Bar cache unavailable, falling through", "error", err.Error())
	}

	bars, err := c.next.RecentBars(ctx, symbol, timeframe, n)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(bars); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			logger.Warn(ctx, "Bar cache write failed", "key", key, "error", err.Error())
		}
	}
	return bars, nil
}

// Close releases the redis connection.
func (c *BarCache) Close() error {
	return c.client.Close()
}
