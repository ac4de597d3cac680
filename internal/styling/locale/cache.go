// internal/styling/locale/cache.go
package locale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"stylist-workers/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved values per rounded coordinate key.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (*T, bool)
	Set(ctx context.Context, key string, value *T)
}

// CoordinateKey rounds both coordinates to two decimals (about 1 km).
func CoordinateKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", round2(lat), round2(lon))
}

func round2(v float64) float64 {
	r := math.Round(v*100) / 100
	if r == 0 {
		return 0
	}
	return r
}

type memoryEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

// MemoryCache is an in-process TTL map. Within the TTL, Get returns the same
// pointer that was stored.
type MemoryCache[T any] struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry[T]
	ttl        time.Duration
	now        func() time.Time
	maxEntries int
}

func NewMemoryCache[T any](ttl time.Duration) *MemoryCache[T] {
	return &MemoryCache[T]{
		entries:    make(map[string]memoryEntry[T]),
		ttl:        ttl,
		now:        time.Now,
		maxEntries: 4096,
	}
}

// WithClock replaces the time source.
func (c *MemoryCache[T]) WithClock(now func() time.Time) *MemoryCache[T] {
	c.now = now
	return c
}

func (c *MemoryCache[T]) Get(_ context.Context, key string) (*T, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *MemoryCache[T]) Set(_ context.Context, key string, value *T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) >= c.maxEntries {
		for k, e := range c.entries {
			if !now.Before(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = memoryEntry[T]{value: value, expiresAt: now.Add(c.ttl)}
}

func (c *MemoryCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisCache shares entries between worker replicas. Values are stored as JSON
// with a server-side TTL.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

func NewRedisCache[T any](client *redis.Client, prefix string, ttl time.Duration, log logger.Logger) *RedisCache[T] {
	return &RedisCache[T]{client: client, prefix: prefix, ttl: ttl, logger: log}
}

func (c *RedisCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("locale cache read failed", map[string]interface{}{"key": c.prefix + key, "error": err})
		}
		return nil, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn("locale cache entry corrupt", map[string]interface{}{"key": c.prefix + key, "error": err})
		return nil, false
	}
	return &v, true
}

func (c *RedisCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("locale cache write failed", map[string]interface{}{"key": c.prefix + key, "error": err})
	}
}
