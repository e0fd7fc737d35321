package caches

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"drawing-service/internal/services/cache"
	"drawing-service/internal/storage"
)

const redisKeyPrefix = "asset:"

// RedisCache shares drawing images between service instances.
type RedisCache struct {
	client    *storage.RedisClient
	ttl       time.Duration
	maxObject int64

	hits   atomic.Int64
	misses atomic.Int64
}

func NewRedisCache(client *storage.RedisClient, maxObjectBytes int64, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client:    client,
		ttl:       ttl,
		maxObject: maxObjectBytes,
	}
}

func (rc *RedisCache) Name() string {
	return "REDIS"
}

func (rc *RedisCache) MaxObjectSize() int64 {
	return rc.maxObject
}

func (rc *RedisCache) Store(ctx context.Context, key string, data []byte) error {
	if err := rc.client.SetBytes(ctx, redisKeyPrefix+key, data, rc.ttl); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}
	log.Printf("Redis cache: stored %s (%d bytes)", key, len(data))
	return nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rc.client.GetBytes(ctx, redisKeyPrefix+key)
	if err != nil {
		rc.misses.Add(1)
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if data == nil {
		rc.misses.Add(1)
		return nil, cache.ErrMiss
	}
	rc.hits.Add(1)
	return data, nil
}

func (rc *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := rc.client.Exists(ctx, redisKeyPrefix+key)
	return n > 0, err
}

func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	return rc.client.Delete(ctx, redisKeyPrefix+key)
}

func (rc *RedisCache) Clear(ctx context.Context) error {
	keys, err := rc.client.Keys(ctx, redisKeyPrefix+"*")
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := rc.client.Delete(ctx, keys...); err != nil {
			return err
		}
	}
	rc.hits.Store(0)
	rc.misses.Store(0)
	log.Printf("Redis cache: cleared %d objects", len(keys))
	return nil
}

func (rc *RedisCache) GetStats() cache.LayerStats {
	hits, misses := rc.hits.Load(), rc.misses.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	keys, _ := rc.client.Keys(ctx, redisKeyPrefix+"*")
	var size int64
	for _, key := range keys {
		if n, err := rc.client.StrLen(ctx, key); err == nil {
			size += n
		}
	}

	return cache.LayerStats{
		Name:      "Redis",
		Objects:   len(keys),
		SizeBytes: size,
		Hits:      hits,
		Misses:    misses,
		HitRate:   cache.HitRate(hits, misses),
	}
}
