// Package cache wraps go-redis for the scraper's page cache.
package cache

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/fortuna/portal/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisCache handles caching of fetched pages
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string, logger *zap.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.NewCacheError("invalid redis url", "connect", "", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.NewCacheError("redis unreachable", "ping", "", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("connected to redis", zap.String("addr", opt.Addr), zap.Int("db", opt.DB))

	return NewRedisCacheFromClient(client, logger), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, logger: logger}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Set stores a string value with TTL
func (rc *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := rc.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.NewCacheError("set failed", "set", key, err)
	}
	return nil
}

// Get retrieves a value by key. A missing key is a miss, not an error.
func (rc *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := rc.client.Get(ctx, key).Result()
	if stderrors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.NewCacheError("get failed", "get", key, err)
	}
	return val, true, nil
}

// Delete removes keys
func (rc *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return errors.NewCacheError("delete failed", "delete", "", err)
	}
	return nil
}
