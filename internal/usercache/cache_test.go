package usercache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	"github.com/Proton-105/p2p-exchange-bot/pkg/config"
	"github.com/Proton-105/p2p-exchange-bot/pkg/redis"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.New(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(redis.NewMetricsClient(client), ttl), mr
}

func TestCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	user := &domain.User{
		ID:         3,
		TelegramID: 42,
		Username:   "alice",
		Rating:     decimal.RequireFromString("4.75"),
		TotalDeals: 8,
		CreatedAt:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, cache.Set(ctx, user))
	assert.True(t, mr.Exists("user:42"))
	assert.Equal(t, time.Minute, mr.TTL("user:42"))

	got, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, user.Rating.Equal(got.Rating))
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
}

func TestCache_MissIsNotAnError(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)

	got, err := cache.Get(context.Background(), 7)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	cache, mr := newTestCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.User{TelegramID: 42}))
	mr.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &domain.User{TelegramID: 42}))
	require.NoError(t, cache.Invalidate(ctx, 42))
	assert.False(t, mr.Exists("user:42"))
}

func TestCache_CorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("user:42", "{not json"))

	_, err := cache.Get(context.Background(), 42)
	assert.Error(t, err)
}

func TestCache_NilStore(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	assert.NoError(t, cache.Set(ctx, &domain.User{TelegramID: 1}))
	got, err := cache.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
