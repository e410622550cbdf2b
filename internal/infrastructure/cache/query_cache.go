package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueryCache stores JSON-encoded read results under string keys and
// invalidates them by prefix. Misses report found=false.
type QueryCache interface {
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// RedisQueryCache is a QueryCache backed by Redis
type RedisQueryCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisQueryCache creates a cache on a shared client
func NewRedisQueryCache(client redis.UniversalClient) *RedisQueryCache {
	return &RedisQueryCache{client: client, keyPrefix: KeyPrefix + "query:"}
}

func (c *RedisQueryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisQueryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// InvalidatePrefix scans rather than using KEYS so large keyspaces do not
// block the server
func (c *RedisQueryCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+prefix+"*", 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("cache invalidate %s: %w", prefix, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", prefix, err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("cache invalidate %s: %w", prefix, err)
		}
	}
	return nil
}

// InMemoryQueryCache is a QueryCache for a single instance
type InMemoryQueryCache struct {
	mu      sync.RWMutex
	entries map[string]queryEntry
	now     func() time.Time
}

type queryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// NewInMemoryQueryCache creates an empty cache
func NewInMemoryQueryCache() *InMemoryQueryCache {
	return &InMemoryQueryCache{entries: make(map[string]queryEntry), now: time.Now}
}

func (c *InMemoryQueryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(e.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *InMemoryQueryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = queryEntry{raw: raw, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *InMemoryQueryCache) InvalidatePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) || now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	return nil
}

var (
	_ QueryCache = (*RedisQueryCache)(nil)
	_ QueryCache = (*InMemoryQueryCache)(nil)
)
