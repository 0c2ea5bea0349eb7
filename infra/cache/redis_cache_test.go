package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/payollar/payollar/pkg/cache"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupRedisCache starts a Redis container and returns a cache bound to it.
// The test is skipped when no container runtime is available.
func setupRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	c, err := NewRedisCache("redis://"+host+":"+port.Port(), "test:", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_SetGetRevalidate(t *testing.T) {
	c := setupRedisCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, cache.PayoutsViewKey)
	require.NoError(t, err)
	assert.False(t, ok)

	payouts := []*dto.PayoutRead{{
		ID:        uuid.New(),
		CreatorID: uuid.New(),
		Credits:   decimal.RequireFromString("40.00"),
		Status:    "PROCESSING",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}}
	require.NoError(t, c.Set(ctx, cache.PayoutsViewKey, payouts, time.Minute))

	got, ok, err := c.Get(ctx, cache.PayoutsViewKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, payouts[0].ID, got[0].ID)
	assert.True(t, payouts[0].Credits.Equal(got[0].Credits))

	require.NoError(t, c.Revalidate(ctx, cache.PayoutsViewKey))
	_, ok, err = c.Get(ctx, cache.PayoutsViewKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_SetIfVersion(t *testing.T) {
	c := setupRedisCache(t)
	ctx := context.Background()
	payouts := []*dto.PayoutRead{{ID: uuid.New(), Status: "PROCESSING"}}

	v, err := c.Version(ctx, cache.PayoutsViewKey)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, c.Revalidate(ctx, cache.PayoutsViewKey))
	next, err := c.Version(ctx, cache.PayoutsViewKey)
	require.NoError(t, err)
	assert.Equal(t, v+1, next)

	stored, err := c.SetIfVersion(ctx, cache.PayoutsViewKey, v, payouts, time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, cache.PayoutsViewKey)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err = c.SetIfVersion(ctx, cache.PayoutsViewKey, next, payouts, time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
	got, ok, err := c.Get(ctx, cache.PayoutsViewKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, payouts[0].ID, got[0].ID)
}

func TestRedisCache_Unreachable(t *testing.T) {
	c := NewRedisCacheWithOptions(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}, "test:", discardLogger())
	defer c.Close() //nolint:errcheck
	ctx := context.Background()

	_, ok, err := c.Get(ctx, cache.PayoutsViewKey)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, cache.PayoutsViewKey, nil, time.Minute))
	assert.Error(t, c.Revalidate(ctx, cache.PayoutsViewKey))
	_, err = c.Version(ctx, cache.PayoutsViewKey)
	assert.Error(t, err)
	stored, err := c.SetIfVersion(ctx, cache.PayoutsViewKey, 0, nil, time.Minute)
	assert.Error(t, err)
	assert.False(t, stored)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache("://nope", "", discardLogger())
	assert.Error(t, err)
}

var (
	_ cache.PayoutViewCache = (*RedisCache)(nil)
	_ cache.Revalidator     = (*RedisCache)(nil)
)
