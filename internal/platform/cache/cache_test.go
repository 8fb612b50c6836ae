package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute)
}

func TestFetchJSONPopulatesOnce(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]float64{"revenue": 15000}, nil
	}

	key, err := c.Key(ctx, "views", "pnl", "month")
	require.NoError(t, err)

	var out map[string]float64
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.Equal(t, 1, calls)
	require.Equal(t, 15000.0, out["revenue"])
}

func TestBumpChangesKey(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	before, err := c.Key(ctx, "views", "valuation")
	require.NoError(t, err)
	require.NoError(t, c.Bump(ctx))
	after, err := c.Key(ctx, "views", "valuation")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestNilCachePassesThrough(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	var out int
	require.NoError(t, c.FetchJSON(ctx, "k", &out, func(context.Context) (any, error) { return 42, nil }))
	require.Equal(t, 42, out)
	require.NoError(t, c.Bump(ctx))
}
