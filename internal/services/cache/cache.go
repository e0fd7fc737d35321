package cache

import (
	"context"

	"github.com/pkg/errors"
)

// ErrMiss is returned by a layer that does not hold the requested asset.
var ErrMiss = errors.New("cache miss")

// CacheLayer is one tier of the asset cache. Keys are asset store keys.
type CacheLayer interface {
	Name() string
	// MaxObjectSize is the largest asset this layer accepts, 0 for no limit.
	MaxObjectSize() int64
	Store(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	GetStats() LayerStats
}

type LayerStats struct {
	Name      string  `json:"name"`
	Objects   int     `json:"objects"`
	SizeBytes int64   `json:"sizeBytes"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hitRate"`
}

// HitRate returns hits as a percentage of all lookups.
func HitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}
