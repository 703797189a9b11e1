package upstream

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	coreport "github.com/amirhossein-jamali/game-portal/internal/domain/port/core"
)

// ResponseCache stores validated upstream response bodies for a short TTL
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache keeps responses in Redis so every API replica shares them
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCache creates a Redis backed response cache
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

// Get returns the cached body; a missing key is a miss, not an error
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set stores the body with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, string(value), ttl).Err()
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local cache used when Redis is disabled
type MemoryCache struct {
	mu           sync.Mutex
	items        map[string]memoryItem
	timeProvider coreport.TimeProvider
}

// NewMemoryCache creates an in-process response cache
func NewMemoryCache(timeProvider coreport.TimeProvider) *MemoryCache {
	return &MemoryCache{
		items:        make(map[string]memoryItem),
		timeProvider: timeProvider,
	}
}

// Get returns an unexpired body
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !c.timeProvider.Now().Before(item.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	return item.value, true, nil
}

// Set stores the body until now+ttl and drops expired entries
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.timeProvider.Now()
	for k, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, k)
		}
	}
	c.items[key] = memoryItem{value: value, expiresAt: now.Add(ttl)}
	return nil
}

// NoopCache never stores anything
type NoopCache struct{}

// Get always misses
func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
