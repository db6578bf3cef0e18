package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/invoiceworks/backend-invoicing/internal/ratelimit"
)

func newLimiter(t *testing.T) (ratelimit.Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return ratelimit.Limiter{Client: rdb, Prefix: "rl:"}, mr
}

func TestAllowWithinLimit(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 3)
		require.NoError(t, err)
		require.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 3)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, 0, remaining)
}

func TestAllowKeysAreIndependent(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 2)
		require.NoError(t, err)
	}
	allowed, _, _, err := limiter.Allow(ctx, "10.0.0.2", time.Minute, 2)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestAllowWindowSlides(t *testing.T) {
	limiter, _ := newLimiter(t)
	ctx := context.Background()

	base := time.Now()
	limiter.Now = func() time.Time { return base }
	_, _, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 1)
	require.NoError(t, err)

	allowed, _, _, err := limiter.Allow(ctx, "10.0.0.1", time.Minute, 1)
	require.NoError(t, err)
	require.False(t, allowed)

	// Past the window the old entry ages out of the sorted set.
	limiter.Now = func() time.Time { return base.Add(2 * time.Minute) }
	allowed, _, _, err = limiter.Allow(ctx, "10.0.0.1", time.Minute, 1)
	require.NoError(t, err)
	require.True(t, allowed)
}

func TestAllowDisabled(t *testing.T) {
	limiter := ratelimit.Limiter{}
	allowed, _, _, err := limiter.Allow(context.Background(), "anyone", time.Minute, 10)
	require.NoError(t, err)
	require.True(t, allowed)
}
