package upstream_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"trainhub/portal/internal/upstream"
)

func newCache(t *testing.T) *upstream.ResponseCache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return upstream.NewResponseCache(client, time.Minute, zerolog.Nop())
}

func TestResponseCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newCache(t)

	_, ok := cache.Get(ctx, "ns-a", "/api/v1/courses")
	require.False(t, ok)

	cache.Set(ctx, "ns-a", "/api/v1/courses", []byte(`[{"id":"101"}]`))

	val, ok := cache.Get(ctx, "ns-a", "/api/v1/courses")
	require.True(t, ok)
	require.JSONEq(t, `[{"id":"101"}]`, string(val))
}

func TestResponseCache_PurgeDropsWholeNamespace(t *testing.T) {
	ctx := context.Background()
	cache := newCache(t)

	cache.Set(ctx, "ns-a", "/api/v1/courses", []byte(`[]`))
	cache.Set(ctx, "ns-a", "/api/v1/leaderboard", []byte(`[]`))
	cache.Set(ctx, "ns-b", "/api/v1/courses", []byte(`["kept"]`))

	cache.Purge(ctx, "ns-a")

	_, ok := cache.Get(ctx, "ns-a", "/api/v1/courses")
	require.False(t, ok)
	_, ok = cache.Get(ctx, "ns-a", "/api/v1/leaderboard")
	require.False(t, ok)

	val, ok := cache.Get(ctx, "ns-b", "/api/v1/courses")
	require.True(t, ok, "purge must be scoped to one namespace")
	require.Equal(t, `["kept"]`, string(val))
}
