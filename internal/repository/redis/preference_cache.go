package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"smartShop/pkg/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

const opTimeout = 3 * time.Second

type preferenceEntry struct {
	Categories []string  `json:"categories"`
	ComputedAt time.Time `json:"computed_at"`
}

// PreferenceCache is the Redis-backed alternative to the in-process
// preference cache, for deployments running more than one API instance.
// Redis errors degrade to a cache miss; the cache is never allowed to fail a
// recommendation request.
type PreferenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPreferenceCache(client *redis.Client, ttl time.Duration) *PreferenceCache {
	return &PreferenceCache{
		client: client,
		ttl:    ttl,
	}
}

func preferenceKey(userID string) string {
	return fmt.Sprintf("preferences:user:%s", userID)
}

func (c *PreferenceCache) Get(userID string) ([]string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, preferenceKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("preference cache read failed", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var entry preferenceEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		logger.Warn("preference cache entry corrupt", "user_id", userID, "error", err)
		return nil, false
	}

	return entry.Categories, true
}

func (c *PreferenceCache) Put(userID string, categories []string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	jsonData, err := json.Marshal(preferenceEntry{
		Categories: categories,
		ComputedAt: time.Now(),
	})
	if err != nil {
		logger.Warn("failed to marshal preference entry", "user_id", userID, "error", err)
		return
	}

	if err := c.client.Set(ctx, preferenceKey(userID), jsonData, c.ttl).Err(); err != nil {
		logger.Warn("preference cache write failed", "user_id", userID, "error", err)
	}
}

// Clear drops every cached preference entry. Uses a key scan rather than
// FLUSHDB so a shared Redis database stays intact.
func (c *PreferenceCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, "preferences:user:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("preference cache delete failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		logger.Warn("preference cache scan failed", "error", err)
	}
}
