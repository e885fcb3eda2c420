package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
)

func requireRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("NOTES_TEST_REDIS_URL")
	if url == "" {
		t.Skip("NOTES_TEST_REDIS_URL not set")
	}

	c, err := NewRedisCache(context.Background(), url, time.Minute)
	require.NoError(t, err)
	c.prefix = "notes:test:identity:"
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := requireRedis(t)
	ctx := context.Background()
	require.NoError(t, c.Invalidate(ctx, "alice"))

	_, ok, err := c.Get(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, identitydomain.Identity{UserID: 7, Username: "alice"}))

	got, ok, err := c.Get(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, identitydomain.Identity{UserID: 7, Username: "alice"}, got)

	require.NoError(t, c.Invalidate(ctx, "alice"))
	_, ok, err = c.Get(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url", time.Minute)
	assert.Error(t, err)
}

func TestRedisCache_CorruptEntryIsDropped(t *testing.T) {
	c := requireRedis(t)
	ctx := context.Background()
	require.NoError(t, c.client.Set(ctx, c.key("alice"), "{not json", time.Minute).Err())

	_, ok, err := c.Get(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := c.client.Exists(ctx, c.key("alice")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestRedisCache_DropCorruptReportsFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	require.NoError(t, client.Close())
	c := NewRedisCacheWithClient(client, time.Minute)

	err := c.dropCorrupt(context.Background(), "alice")
	assert.Error(t, err)
}
