package cache

import (
	"errors"
	"sync/atomic"
	"time"
)

const memorySweep = 10 * time.Minute

// Stats counts lookups by the layer that answered them
type Stats struct {
	MemoryHits int64 `json:"memory_hits"`
	DiskHits   int64 `json:"disk_hits"`
	Misses     int64 `json:"misses"`
}

// StatsReporter is implemented by caches that count their lookups
type StatsReporter interface {
	Stats() Stats
}

// LayeredCache serves documents from memory, then disk. A disk hit is copied
// into memory so repeated fetches in one run never touch the disk again.
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache

	memoryHits atomic.Int64
	diskHits   atomic.Int64
	misses     atomic.Int64
}

// NewLayeredCache creates a memory layer with memoryTTL over a disk layer in
// diskDir with diskTTL
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, memorySweep),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if data, ok := c.memory.Get(key); ok {
		c.memoryHits.Add(1)
		return data, true
	}

	data, ok := c.disk.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.diskHits.Add(1)
	_ = c.memory.Set(key, data, 0)
	return data, true
}

// Set writes both layers; ttl applies to disk only
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	_ = c.memory.Set(key, value, 0)
	return c.disk.Set(key, value, ttl)
}

func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.disk.Delete(key))
}

func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.disk.Clear())
}

// Stats returns lookup counts since creation
func (c *LayeredCache) Stats() Stats {
	return Stats{
		MemoryHits: c.memoryHits.Load(),
		DiskHits:   c.diskHits.Load(),
		Misses:     c.misses.Load(),
	}
}
