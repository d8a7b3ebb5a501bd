package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"skilllink/backend/cache"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newCache returns a cache without a janitor so tests can swap the clock.
func newCache(t *testing.T) *Cache {
	t.Helper()
	c := New(cache.Options{DefaultTTL: time.Minute})
	t.Cleanup(func() { c.Close() })
	return c
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	require.NoError(t, c.Set(ctx, "k", payload{Name: "a", Count: 2}, 0))

	var got payload
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	var s string
	require.NoError(t, c.Set(ctx, "s", "plain", 0))
	require.NoError(t, c.Get(ctx, "s", &s))
	assert.Equal(t, "plain", s)
}

func TestCache_Miss(t *testing.T) {
	c := newCache(t)
	var got payload
	assert.ErrorIs(t, c.Get(context.Background(), "missing", &got), cache.ErrNotFound)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newCache(t)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", 1, time.Second))
	var n int
	require.NoError(t, c.Get(ctx, "k", &n))

	now = now.Add(2 * time.Second)
	assert.ErrorIs(t, c.Get(ctx, "k", &n), cache.ErrNotFound)
}

func TestCache_DeleteClearClose(t *testing.T) {
	ctx := context.Background()
	c := newCache(t)

	a, b := cache.Key("a"), cache.Key("b")
	require.NoError(t, c.Set(ctx, a, 1, 0))
	require.NoError(t, c.Set(ctx, b, 2, 0))
	require.NoError(t, c.Set(ctx, "foreign", 3, 0))
	require.NoError(t, c.Delete(ctx, a))

	var n int
	assert.ErrorIs(t, c.Get(ctx, a, &n), cache.ErrNotFound)
	require.NoError(t, c.Clear(ctx))
	assert.ErrorIs(t, c.Get(ctx, b, &n), cache.ErrNotFound)
	require.NoError(t, c.Get(ctx, "foreign", &n), "keys outside the namespace survive Clear")
	assert.Equal(t, 3, n)

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Set(ctx, "c", 3, 0), cache.ErrClosed)
	assert.ErrorIs(t, c.Set(ctx, "", 3, 0), cache.ErrInvalidKey)
	assert.NoError(t, c.Close(), "closing twice is a no-op")
}

func TestCache_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newCache(t)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", 1, time.Second))
	require.NoError(t, c.Set(ctx, "long", 2, time.Hour))

	now = now.Add(2 * time.Second)
	c.DeleteExpired()
	assert.Equal(t, 1, c.Len())

	var n int
	require.NoError(t, c.Get(ctx, "long", &n))
	assert.Equal(t, 2, n)
}

func TestCache_JanitorEvictsAndStops(t *testing.T) {
	ctx := context.Background()
	c := New(cache.Options{DefaultTTL: time.Minute, CleanupInterval: 5 * time.Millisecond})

	require.NoError(t, c.Set(ctx, "k", 1, 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "kept", 1, time.Hour))
	assert.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 5*time.Millisecond)

	// goleak in TestMain fails the package if the janitor outlives Close.
	require.NoError(t, c.Close())
}
