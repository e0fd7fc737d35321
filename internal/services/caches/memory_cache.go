package caches

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"drawing-service/internal/services/cache"
)

// MemoryCache keeps small drawing images in process memory with LRU eviction.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]*memoryCacheEntry
	maxSize     int64
	maxObject   int64
	currentSize int64
	ttl         time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

type memoryCacheEntry struct {
	data       []byte
	createdAt  time.Time
	lastAccess time.Time
}

// NewMemoryCache creates a cache bounded to maxSizeBytes. Objects larger than
// maxObjectBytes are not accepted.
func NewMemoryCache(maxSizeBytes, maxObjectBytes int64, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:   make(map[string]*memoryCacheEntry),
		maxSize:   maxSizeBytes,
		maxObject: maxObjectBytes,
		ttl:       ttl,
	}
}

func (mc *MemoryCache) Name() string {
	return "MEMORY"
}

func (mc *MemoryCache) MaxObjectSize() int64 {
	return mc.maxObject
}

func (mc *MemoryCache) Store(ctx context.Context, key string, data []byte) error {
	size := int64(len(data))
	if size > mc.maxSize || (mc.maxObject > 0 && size > mc.maxObject) {
		return fmt.Errorf("object of size %d exceeds memory cache limits", size)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if old, ok := mc.entries[key]; ok {
		mc.currentSize -= int64(len(old.data))
		delete(mc.entries, key)
	}
	for mc.currentSize+size > mc.maxSize {
		if !mc.evictLRU() {
			return fmt.Errorf("unable to free space for object of size %d", size)
		}
	}

	now := time.Now()
	mc.entries[key] = &memoryCacheEntry{data: data, createdAt: now, lastAccess: now}
	mc.currentSize += size
	log.Printf("Memory cache: stored %s (%d bytes)", key, size)
	return nil
}

func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if ok && mc.expired(entry, time.Now()) {
		mc.remove(key)
		ok = false
	}
	if !ok {
		mc.misses.Add(1)
		return nil, cache.ErrMiss
	}
	entry.lastAccess = time.Now()
	mc.hits.Add(1)
	return entry.data, nil
}

func (mc *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	entry, ok := mc.entries[key]
	return ok && !mc.expired(entry, time.Now()), nil
}

func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.remove(key)
	return nil
}

func (mc *MemoryCache) Clear(ctx context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries = make(map[string]*memoryCacheEntry)
	mc.currentSize = 0
	mc.hits.Store(0)
	mc.misses.Store(0)
	log.Printf("Memory cache: cleared all objects")
	return nil
}

func (mc *MemoryCache) GetStats() cache.LayerStats {
	mc.mu.Lock()
	objects, size := len(mc.entries), mc.currentSize
	mc.mu.Unlock()

	hits, misses := mc.hits.Load(), mc.misses.Load()
	return cache.LayerStats{
		Name:      "Memory",
		Objects:   objects,
		SizeBytes: size,
		Hits:      hits,
		Misses:    misses,
		HitRate:   cache.HitRate(hits, misses),
	}
}

// CleanupExpired drops entries older than the TTL and returns how many were removed.
func (mc *MemoryCache) CleanupExpired() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range mc.entries {
		if mc.expired(entry, now) {
			mc.remove(key)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Memory cache: cleaned up %d expired objects", removed)
	}
	return removed
}

// RunCleanup removes expired entries every interval until ctx is done.
func (mc *MemoryCache) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mc.CleanupExpired()
		}
	}
}

func (mc *MemoryCache) expired(entry *memoryCacheEntry, now time.Time) bool {
	return mc.ttl > 0 && now.Sub(entry.createdAt) > mc.ttl
}

// remove must be called with mu held.
func (mc *MemoryCache) remove(key string) {
	if entry, ok := mc.entries[key]; ok {
		mc.currentSize -= int64(len(entry.data))
		delete(mc.entries, key)
	}
}

// evictLRU must be called with mu held.
func (mc *MemoryCache) evictLRU() bool {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range mc.entries {
		if oldestKey == "" || entry.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccess
		}
	}
	if oldestKey == "" {
		return false
	}
	mc.remove(oldestKey)
	log.Printf("Memory cache: evicted %s", oldestKey)
	return true
}
