package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"drawing-service/internal/metrics"
	"drawing-service/internal/services/cache"
)

const (
	SmallFileThreshold  = 8 << 20   // 8MB - In-Memory Cache
	MediumFileThreshold = 32 << 20  // 32MB - File System Cache
	LargeFileThreshold  = 100 << 20 // 100MB - Redis Cache
)

// CacheStrategy places drawing images into cache layers by size. Layers are
// consulted in the order given, fastest first.
type CacheStrategy struct {
	layers []cache.CacheLayer
}

type MultiLayerCacheStats struct {
	Layers   []cache.LayerStats `json:"layers"`
	Strategy StrategyStats      `json:"strategy"`
}

type StrategyStats struct {
	SmallFileThreshold  int64 `json:"smallFileThreshold"`
	MediumFileThreshold int64 `json:"mediumFileThreshold"`
	LargeFileThreshold  int64 `json:"largeFileThreshold"`
}

func NewCacheStrategy(layers ...cache.CacheLayer) *CacheStrategy {
	kept := make([]cache.CacheLayer, 0, len(layers))
	for _, layer := range layers {
		if layer != nil {
			kept = append(kept, layer)
		}
	}
	return &CacheStrategy{layers: kept}
}

// Layers returns the configured layers in lookup order.
func (cs *CacheStrategy) Layers() []cache.CacheLayer {
	return cs.layers
}

// GetOptimalCache returns the first layer that accepts an object of size
// bytes, or nil when the object should be served from the store directly.
func (cs *CacheStrategy) GetOptimalCache(size int64) cache.CacheLayer {
	if size > LargeFileThreshold {
		return nil
	}
	for _, layer := range cs.layers {
		if limit := layer.MaxObjectSize(); limit == 0 || size <= limit {
			return layer
		}
	}
	return nil
}

// Lookup consults each layer in order and returns the first hit.
func (cs *CacheStrategy) Lookup(ctx context.Context, key string, trace *metrics.AssetTrace) ([]byte, cache.CacheLayer, bool) {
	for _, layer := range cs.layers {
		done := trace.Attempt(layer.Name())
		data, err := layer.Get(ctx, key)
		if err == nil {
			done(true, nil)
			return data, layer, true
		}
		if errors.Is(err, cache.ErrMiss) {
			done(false, nil)
			continue
		}
		done(false, err)
		log.Printf("Cache lookup failed for %s in %s layer: %v", key, layer.Name(), err)
	}
	return nil, nil, false
}

// Fill stores data in the layer chosen for its size. It returns the layer
// name, or "" when the object is not cacheable.
func (cs *CacheStrategy) Fill(ctx context.Context, key string, data []byte) (string, error) {
	layer := cs.GetOptimalCache(int64(len(data)))
	if layer == nil {
		return "", nil
	}
	if err := layer.Store(ctx, key, data); err != nil {
		return layer.Name(), fmt.Errorf("failed to store in %s cache: %w", layer.Name(), err)
	}
	return layer.Name(), nil
}

// Promote copies an object found in a slower layer into the optimal one.
func (cs *CacheStrategy) Promote(ctx context.Context, key string, data []byte, from cache.CacheLayer) {
	optimal := cs.GetOptimalCache(int64(len(data)))
	if optimal == nil || optimal == from {
		return
	}
	if err := optimal.Store(ctx, key, data); err != nil {
		log.Printf("Failed to promote %s to %s: %v", key, optimal.Name(), err)
		return
	}
	log.Printf("Promoted %s from %s to %s cache", key, from.Name(), optimal.Name())
}

// InvalidateObject removes key from all layers.
func (cs *CacheStrategy) InvalidateObject(ctx context.Context, key string) error {
	var errs []error
	for _, layer := range cs.layers {
		if err := layer.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("%s cache: %w", layer.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (cs *CacheStrategy) GetStatistics() *MultiLayerCacheStats {
	stats := &MultiLayerCacheStats{
		Layers: make([]cache.LayerStats, 0, len(cs.layers)),
		Strategy: StrategyStats{
			SmallFileThreshold:  SmallFileThreshold,
			MediumFileThreshold: MediumFileThreshold,
			LargeFileThreshold:  LargeFileThreshold,
		},
	}
	for _, layer := range cs.layers {
		stats.Layers = append(stats.Layers, layer.GetStats())
	}
	return stats
}

func (cs *CacheStrategy) ClearAll(ctx context.Context) error {
	var errs []error
	for _, layer := range cs.layers {
		if err := layer.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
