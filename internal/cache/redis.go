package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Clownworldenjoyer76/NHL-for-mat/internal/metrics"
)

const keyPrefix = "nhlproj:resp:"

// Config holds Redis connection settings. Addr is host:port.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache stores raw provider response bodies keyed by request URL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to ping redis")
	}

	log.Info().
		Str("addr", client.Options().Addr).
		Int("db", cfg.DB).
		Dur("ttl", cfg.TTL).
		Msg("Redis cache connected")

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

// Get returns the cached body for a request URL
func (c *RedisCache) Get(ctx context.Context, url string) ([]byte, bool, error) {
	start := time.Now()
	body, err := c.client.Get(ctx, Key(url)).Bytes()
	metrics.RecordCacheOperation("get", time.Since(start).Seconds())

	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get")
	}

	metrics.RecordCacheHit()
	return body, true, nil
}

// Set stores a response body under its request URL
func (c *RedisCache) Set(ctx context.Context, url string, body []byte) error {
	start := time.Now()
	err := c.client.Set(ctx, Key(url), body, c.ttl).Err()
	metrics.RecordCacheOperation("set", time.Since(start).Seconds())
	if err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Key derives the Redis key for a request URL
func Key(url string) string {
	sum := sha1.Sum([]byte(url))
	return keyPrefix + hex.EncodeToString(sum[:])
}
