package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps fetched documents in process for the lifetime of a run
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a memory cache; expired entries are swept every
// cleanupInterval
func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(ttl, cleanupInterval)}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if v, ok := c.items.Get(key); ok {
		data, isBytes := v.([]byte)
		return data, isBytes
	}
	return nil, false
}

// Set stores value; ttl <= 0 means the TTL given to NewMemoryCache
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	expiry := ttl
	if expiry <= 0 {
		expiry = gocache.DefaultExpiration
	}
	c.items.Set(key, value, expiry)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() error {
	c.items.Flush()
	return nil
}

// Len reports the number of entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
