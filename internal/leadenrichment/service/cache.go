package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"leadrouter/internal/leadenrichment/client"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "leadrouter:enrichment:"

// Cache stores lookup results. A cached miss is reported as ok with a nil
// profile.
type Cache interface {
	Get(ctx context.Context, key string) (*client.FirmProfile, bool, error)
	Set(ctx context.Context, key string, profile *client.FirmProfile, ttl time.Duration) error
}

type cacheEntry struct {
	profile   *client.FirmProfile
	expiresAt time.Time
}

// MemoryCache is a process-local cache used when Redis is not configured.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*client.FirmProfile, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.profile, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, profile *client.FirmProfile, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{profile: profile, expiresAt: c.now().Add(ttl)}
	return nil
}

// RedisCache shares lookups across API and worker processes. Profiles are
// stored as JSON, misses as JSON null.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*client.FirmProfile, bool, error) {
	raw, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var profile *client.FirmProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, false, err
	}
	return profile, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, profile *client.FirmProfile, ttl time.Duration) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, redisKeyPrefix+key, raw, ttl).Err()
}
