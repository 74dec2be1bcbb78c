package cache

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// NoExpiration keeps an entry until it is deleted or flushed.
const NoExpiration = cache.NoExpiration

// Cache is a process-local TTL store. Load collapses concurrent misses on the same key into a
// single call of fn; only successful results are stored.
type Cache interface {
	Set(key string, value interface{}, ttl time.Duration)
	Get(key string) (interface{}, bool)
	Load(key string, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error)
	Delete(key string)
	Flush()
	ItemCount() int
}

type memoryCache struct {
	items  *cache.Cache
	flight singleflight.Group
}

func NewCache(defaultExpiration, cleanupInterval time.Duration) Cache {
	return &memoryCache{items: cache.New(defaultExpiration, cleanupInterval)}
}

func (c *memoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.items.Set(key, value, ttl)
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.items.Get(key)
}

func (c *memoryCache) Load(key string, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.items.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.items.Set(key, v, ttl)
		return v, nil
	})
	return v, err
}

func (c *memoryCache) Delete(key string) {
	c.items.Delete(key)
}

func (c *memoryCache) Flush() {
	c.items.Flush()
}

func (c *memoryCache) ItemCount() int {
	return c.items.ItemCount()
}

// GetFromCache returns the value under key when it exists and holds a T.
func GetFromCache[T any](c Cache, key string) (T, bool) {
	v, found := c.Get(key)
	if !found {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Remember is the typed form of Cache.Load.
func Remember[T any](c Cache, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	v, err := c.Load(key, ttl, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: %s holds %T", key, v)
	}
	return typed, nil
}
