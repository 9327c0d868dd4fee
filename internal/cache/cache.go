// Package cache provides the TTL cache used in front of the catalog reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache stores JSON encoded values under string keys.
type Cache interface {
	// Get decodes the value stored under key into dest. It reports false on
	// a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key for the cache TTL.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases the underlying connection.
	Close() error
}

type redisCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, opts *redis.Options, namespace string, ttl time.Duration, logger zerolog.Logger) (Cache, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log := logger.With().Str("component", "cache").Logger()
	log.Info().Str("addr", opts.Addr).Dur("ttl", ttl).Msg("redis cache connected")

	return &redisCache{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		logger:    log,
	}, nil
}

func (c *redisCache) key(k string) string {
	return c.namespace + ":" + k
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry is treated as a miss and dropped
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		_ = c.client.Del(ctx, c.key(key)).Err()
		return false, nil
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

func (c *redisCache) Close() error {
	return c.client.Close()
}

type nopCache struct{}

// NewNop returns a cache that never stores anything.
func NewNop() Cache {
	return nopCache{}
}

func (nopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, any) error         { return nil }
func (nopCache) Delete(context.Context, ...string) error        { return nil }
func (nopCache) Close() error                                   { return nil }
