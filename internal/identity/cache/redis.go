package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/constants"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
)

const redisBackend = "redis"

type redisEntry struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return NewRedisCacheWithClient(client, ttl), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: constants.IdentityCacheKeyPrefix,
	}
}

func (c *RedisCache) key(username string) string {
	return c.prefix + username
}

func (c *RedisCache) Get(ctx context.Context, username string) (identitydomain.Identity, bool, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return identitydomain.Identity{}, false, nil
	}
	if err != nil {
		return identitydomain.Identity{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// corrupt entries are dropped and treated as a miss
		_ = c.dropCorrupt(ctx, username)
		return identitydomain.Identity{}, false, nil
	}
	if entry.Username != username {
		return identitydomain.Identity{}, false, nil
	}
	return identitydomain.Identity{UserID: entry.UserID, Username: entry.Username}, true, nil
}

func (c *RedisCache) dropCorrupt(ctx context.Context, username string) error {
	if err := c.client.Del(ctx, c.key(username)).Err(); err != nil {
		metrics.IdentityCacheErrors.WithLabelValues(redisBackend, "drop_corrupt").Inc()
		return fmt.Errorf("failed to drop corrupt identity entry: %w", err)
	}
	return nil
}

func (c *RedisCache) Set(ctx context.Context, identity identitydomain.Identity) error {
	raw, err := json.Marshal(redisEntry{UserID: identity.UserID, Username: identity.Username})
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	if err := c.client.Set(ctx, c.key(identity.Username), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache identity: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, username string) error {
	if err := c.client.Del(ctx, c.key(username)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate identity: %w", err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Backend() string {
	return redisBackend
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
