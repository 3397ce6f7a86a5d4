package cache

import (
	"context"
	"encoding/json"
	"time"

	"glam-commerce/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache is a thin JSON read-through cache over Redis. A nil *Cache is safe to
// use and behaves as a permanent miss, so callers never branch on wiring.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(config utils.RedisConfig, log *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return &Cache{
		client: client,
		ttl:    time.Duration(config.TTLSecs) * time.Second,
		log:    log.With(zap.String("component", "cache")),
	}, nil
}

// Get unmarshals the cached value into dest. Returns false on miss or error;
// cache errors are logged, never surfaced to the request path.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Cache get failed", zap.Error(err), zap.String("key", key))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("Cache unmarshal failed", zap.Error(err), zap.String("key", key))
		return false
	}

	return true
}

// Set stores value under key with the configured TTL, best effort.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Cache marshal failed", zap.Error(err), zap.String("key", key))
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", zap.Error(err), zap.String("key", key))
	}
}

// Invalidate drops keys matching the given patterns, best effort.
func (c *Cache) Invalidate(ctx context.Context, patterns ...string) {
	if c == nil {
		return
	}

	for _, pattern := range patterns {
		keys, err := c.client.Keys(ctx, pattern).Result()
		if err != nil {
			c.log.Warn("Cache scan failed", zap.Error(err), zap.String("pattern", pattern))
			continue
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn("Cache delete failed", zap.Error(err), zap.String("pattern", pattern))
		}
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
