package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned by Get when the key is absent, expired, or the
// backend could not be reached. Callers treat all three the same way: fetch
// from upstream.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the key-value store shared by the fetch layer. Values are
// JSON-serializable documents with per-entry expiration. Caching is
// best-effort: implementations must degrade backend failures to a miss (Get)
// or a silent no-op (Set/Delete) rather than surfacing errors upward.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheTTLs holds the freshness window per entry category, in the spirit of
// one injected config struct rather than package-level constants.
type CacheTTLs struct {
	LiveGames     time.Duration
	UpcomingGames time.Duration
	FinishedGames time.Duration
	TeamStats     time.Duration
	PlayerStats   time.Duration
}

// DefaultCacheTTLs returns the production freshness windows.
func DefaultCacheTTLs() CacheTTLs {
	return CacheTTLs{
		LiveGames:     60 * time.Second,
		UpcomingGames: 300 * time.Second,
		FinishedGames: 3600 * time.Second,
		TeamStats:     86400 * time.Second,
		PlayerStats:   3600 * time.Second,
	}
}

// Cache key namespaces.
const teamDirectoryCacheKey = "mlb_teams"

func teamStatsCacheKey(teamID int) string {
	return fmt.Sprintf("team_stats:%d", teamID)
}

func scheduleCacheKey(date string) string {
	return fmt.Sprintf("schedule:%s", date)
}

func playerStatsCacheKey(gamePk int64) string {
	return fmt.Sprintf("player_stats:%d", gamePk)
}

// scheduleDatesCacheKey tracks which date partitions exist so pruning can
// enumerate them without a backend key scan.
const scheduleDatesCacheKey = "schedule:dates"

// RedisCache backs the Cache interface with a shared Redis instance.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisCache(client *redis.Client, logger *logrus.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithFields(logrus.Fields{
				"component": "cache",
				"key":       key,
			}).WithError(err).Warn("Redis get failed, treating as miss")
		}
		return ErrCacheMiss
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		c.logger.WithFields(logrus.Fields{
			"component": "cache",
			"key":       key,
		}).WithError(err).Warn("Failed to unmarshal cached value, treating as miss")
		return ErrCacheMiss
	}

	return nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithFields(logrus.Fields{
			"component": "cache",
			"key":       key,
		}).WithError(err).Warn("Redis set failed, skipping cache write")
	}

	return nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithField("component", "cache").WithError(err).Warn("Redis delete failed")
	}
	return nil
}

// MemoryCache substitutes for Redis when no external cache is configured. It
// round-trips values through JSON so both backends store the same documents.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return ErrCacheMiss
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		return ErrCacheMiss
	}
	return nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not. Used by the
// health endpoint.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
