package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/election-api/internal/core/domain"
)

func setupTestRedis(t *testing.T) *ResultCache {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr, DB: 15})
	require.NoError(t, err)
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return NewResultCache(client, time.Minute)
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache := setupTestRedis(t)
	ctx := context.Background()

	miss, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	gen, err := cache.Generation(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, cache.Set(ctx, &domain.Result{ID: "r1", ElectionID: "e1", TotalVotes: 3, Published: true}, gen))
	hit, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, int64(3), hit.TotalVotes)

	require.NoError(t, cache.Invalidate(ctx, "r1"))
	gone, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestResultCacheSkipsStaleGeneration(t *testing.T) {
	cache := setupTestRedis(t)
	ctx := context.Background()

	gen, err := cache.Generation(ctx, "r1")
	require.NoError(t, err)

	// An unpublish lands between the reader's row load and its write.
	require.NoError(t, cache.Invalidate(ctx, "r1"))
	require.NoError(t, cache.Set(ctx, &domain.Result{ID: "r1", Published: true}, gen))

	miss, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	next, err := cache.Generation(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)

	require.NoError(t, cache.Set(ctx, &domain.Result{ID: "r1", Published: true}, next))
	hit, err := cache.Get(ctx, "r1")
	require.NoError(t, err)
	assert.NotNil(t, hit)
}

func TestLoginThrottle(t *testing.T) {
	cache := setupTestRedis(t)
	ctx := context.Background()
	throttle := NewLoginThrottle(cache.client, 2, time.Minute)

	key := "voter:a@example.com"
	for i := 0; i < 2; i++ {
		ok, err := throttle.Allowed(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, throttle.Fail(ctx, key))
	}

	ok, err := throttle.Allowed(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, throttle.Reset(ctx, key))
	ok, err = throttle.Allowed(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}
