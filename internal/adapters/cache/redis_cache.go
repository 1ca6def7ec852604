package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a key/value cache store backed by Redis.
// Entries expire by TTL; a missing key is reported as a (nil, nil) get,
// not an error. Absent database results are never written here.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache store
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached value for key, or (nil, nil) on a miss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put stores value under key with the given TTL
func (c *RedisCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Evict removes key from the cache. Evicting a missing key is not an error.
func (c *RedisCache) Evict(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Ping checks Redis connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
