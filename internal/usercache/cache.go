// Package usercache caches user rows in Redis in front of the users table.
package usercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	"github.com/Proton-105/p2p-exchange-bot/pkg/redis"
)

// Store is the subset of the Redis client used by the cache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache provides Redis-backed caching for user profiles.
type Cache struct {
	store Store
	ttl   time.Duration
}

// NewCache constructs a user cache backed by store. A nil store yields a cache that never hits.
func NewCache(store Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

// Get fetches a cached user profile. A miss returns (nil, nil).
func (c *Cache) Get(ctx context.Context, telegramID int64) (*domain.User, error) {
	if c == nil || c.store == nil {
		return nil, nil
	}

	data, err := c.store.Get(ctx, cacheKey(telegramID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached user: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("decode cached user: %w", err)
	}

	return &user, nil
}

// Set stores the user profile for the configured TTL.
func (c *Cache) Set(ctx context.Context, user *domain.User) error {
	if c == nil || c.store == nil || user == nil {
		return nil
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user for cache: %w", err)
	}

	if err := c.store.Set(ctx, cacheKey(user.TelegramID), payload, c.ttl); err != nil {
		return fmt.Errorf("set cached user: %w", err)
	}

	return nil
}

// Invalidate removes the cached profile entry if it exists.
func (c *Cache) Invalidate(ctx context.Context, telegramID int64) error {
	if c == nil || c.store == nil {
		return nil
	}

	if err := c.store.Delete(ctx, cacheKey(telegramID)); err != nil {
		return fmt.Errorf("delete cached user: %w", err)
	}

	return nil
}

func cacheKey(telegramID int64) string {
	return fmt.Sprintf("user:%d", telegramID)
}
