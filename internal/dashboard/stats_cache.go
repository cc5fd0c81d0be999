package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsCacheKey = "zenitwms:dashboard:stats"

type StatsCache interface {
	Get(ctx context.Context) (*Stats, bool)
	Set(ctx context.Context, stats Stats)
}

// NopCache is used when no Redis is configured.
type NopCache struct{}

func (NopCache) Get(ctx context.Context) (*Stats, bool) { return nil, false }
func (NopCache) Set(ctx context.Context, stats Stats)   {}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

// Get treats every Redis failure as a miss.
func (c *RedisCache) Get(ctx context.Context) (*Stats, bool) {
	raw, err := c.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Unable to read dashboard stats from cache", zap.Error(err))
		}
		return nil, false
	}

	var stats Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warn("Discarding malformed cached dashboard stats", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

func (c *RedisCache) Set(ctx context.Context, stats Stats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statsCacheKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Unable to cache dashboard stats", zap.Error(err))
	}
}
