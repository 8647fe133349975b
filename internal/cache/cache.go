// Package cache implements a Redis cache for derived values that can always
// be recomputed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/go-redis/redis/v8"
)

// Cache stores JSON values by key. A miss is not an error.
type Cache interface {
	GetJSON(ctx context.Context, key string, value any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RedisCache is a Cache backed by a Redis server.
type RedisCache struct {
	conn   *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to the Redis server at url (redis://host:port/db)
// and pings it. Keys are namespaced with prefix; ttl 0 keeps values forever.
func NewRedisCache(ctx context.Context, url, prefix string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &RedisCache{conn: client, prefix: prefix, ttl: ttl}, nil
}

func (rc *RedisCache) key(k string) string {
	return rc.prefix + k
}

// GetJSON unmarshals the value stored at key into value. It reports false on a
// miss and leaves value untouched.
func (rc *RedisCache) GetJSON(ctx context.Context, key string, value any) (bool, error) {
	s, err := rc.conn.Get(ctx, rc.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache key %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(s), value); err != nil {
		return false, fmt.Errorf("unmarshaling cached JSON for %q: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value as a JSON string.
func (rc *RedisCache) SetJSON(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling JSON for cache key %q: %w", key, err)
	}
	if err := rc.conn.Set(ctx, rc.key(key), string(b), rc.ttl).Err(); err != nil {
		return fmt.Errorf("writing cache key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	if err := rc.conn.Del(ctx, rc.key(key)).Err(); err != nil {
		return fmt.Errorf("deleting cache key %q: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (rc *RedisCache) Close() error {
	return rc.conn.Close()
}
