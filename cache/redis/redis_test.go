package redis

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilllink/backend/cache"
)

// Runs against a real server only when REDIS_ADDR is set; DB 15 is flushed.
func newTestCache(t *testing.T) (*Cache, *goredis.Client) {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	opts := cache.DefaultOptions()
	opts.RedisURL = addr
	opts.RedisDB = 15
	c := New(opts)
	t.Cleanup(func() { c.Close() })

	raw := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { raw.Close() })

	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, raw.FlushDB(ctx).Err())
	return c, raw
}

func TestCache_ClearKeepsForeignKeys(t *testing.T) {
	c, raw := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 2*scanBatch+5; i++ {
		require.NoError(t, c.Set(ctx, cache.Key("feed", strconv.Itoa(i)), i, 0))
	}
	require.NoError(t, raw.Set(ctx, "other-app:session", "keep", 0).Err())

	require.NoError(t, c.Clear(ctx))

	keys, err := raw.Keys(ctx, cache.Pattern()).Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, "keep", raw.Get(ctx, "other-app:session").Val())
}

func TestCache_SetGetMiss(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, cache.Key("k"), map[string]int{"n": 1}, time.Minute))
	var got map[string]int
	require.NoError(t, c.Get(ctx, cache.Key("k"), &got))
	assert.Equal(t, 1, got["n"])

	assert.ErrorIs(t, c.Get(ctx, cache.Key("missing"), &got), cache.ErrNotFound)
}
