package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ViewCache holds one kind of read-model projection in Redis as JSON. The
// database stays the source of truth: a miss, a decode failure or a write
// error all degrade to reading through, never to failing the request. The
// name identifies the cache in log output.
type ViewCache[T any] struct {
	client *goredis.Client
	name   string
	ttl    time.Duration
}

// NewViewCache binds a cache of T values to a Redis client. A zero ttl means
// entries live until explicitly deleted.
func NewViewCache[T any](client *goredis.Client, name string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, name: name, ttl: ttl}
}

// Get returns the cached value for key, or false on a miss.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		log.Warn().Err(err).Str("cache", c.name).Str("key", key).Msg("dropping undecodable cache entry")
		c.Delete(ctx, key)
		return nil, false
	}
	return &value, true
}

// Set stores value under key for the cache's ttl.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("cache", c.name).Str("key", key).Msg("failed to encode cache entry")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("cache", c.name).Str("key", key).Msg("failed to write cache entry")
	}
}

// Delete removes key from the cache.
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("cache", c.name).Str("key", key).Msg("failed to delete cache entry")
	}
}
