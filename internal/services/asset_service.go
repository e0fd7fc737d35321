package services

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/url"
	"sync"

	"github.com/pkg/errors"

	"drawing-service/internal/metrics"
	"drawing-service/internal/normalizer"
	"drawing-service/internal/storage"
)

// DrawingsPrefix is the store directory holding drawing images.
const DrawingsPrefix = "drawings/"

const sourceLayer = "STORE"

// AssetService serves the metadata document and drawing images, consulting
// the cache layers before the asset store.
type AssetService struct {
	store    storage.AssetStore
	strategy *CacheStrategy
	metrics  *metrics.Metrics
}

// Asset is an open asset. Body must be closed by the caller.
type Asset struct {
	Key   string
	Body  io.ReadCloser
	Size  int64
	Trace *metrics.AssetTrace
}

func NewAssetService(store storage.AssetStore, strategy *CacheStrategy, m *metrics.Metrics) *AssetService {
	if strategy == nil {
		strategy = NewCacheStrategy()
	}
	return &AssetService{store: store, strategy: strategy, metrics: m}
}

// DrawingKey turns a requested drawing file name into a store key. The name
// is URL-unescaped and NFD-normalized so it matches AppDrawing.imageFile.
func DrawingKey(name string) (string, error) {
	unescaped, err := url.PathUnescape(name)
	if err != nil {
		return "", errors.Wrap(storage.ErrInvalidAssetKey, err.Error())
	}
	if unescaped == "" {
		return "", storage.ErrInvalidAssetKey
	}
	return storage.CleanKey(DrawingsPrefix + normalizer.NormalizeFilename(unescaped))
}

// OpenDrawing opens a drawing image by requested file name.
func (s *AssetService) OpenDrawing(ctx context.Context, name string) (*Asset, error) {
	key, err := DrawingKey(name)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, key)
}

// Open returns the asset under key from the first cache layer holding it,
// falling back to the store. Store reads small enough to cache are buffered
// and stored in the layer chosen for their size.
func (s *AssetService) Open(ctx context.Context, key string) (*Asset, error) {
	key, err := storage.CleanKey(key)
	if err != nil {
		return nil, err
	}
	trace := metrics.NewAssetTrace(key)

	if data, layer, ok := s.strategy.Lookup(ctx, key, trace); ok {
		s.strategy.Promote(ctx, key, data, layer)
		trace.Finish(layer.Name(), int64(len(data)))
		s.metrics.RecordAssetRequest(layer.Name(), "hit", trace.Elapsed())
		return &Asset{Key: key, Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data)), Trace: trace}, nil
	}

	done := trace.Attempt(sourceLayer)
	rc, size, err := s.store.Open(ctx, key)
	done(false, err)
	if err != nil {
		result := "error"
		if errors.Is(err, storage.ErrAssetNotFound) {
			result = "not_found"
		}
		s.metrics.RecordAssetRequest(sourceLayer, result, trace.Elapsed())
		return nil, err
	}

	if s.strategy.GetOptimalCache(size) == nil {
		trace.Finish(sourceLayer, size)
		s.metrics.RecordAssetRequest(sourceLayer, "miss", trace.Elapsed())
		return &Asset{Key: key, Body: newCountingRC(rc, s.metrics), Size: size, Trace: trace}, nil
	}

	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		s.metrics.RecordAssetRequest(sourceLayer, "error", trace.Elapsed())
		return nil, errors.Wrapf(err, "could not read %s", key)
	}
	if layer, err := s.strategy.Fill(ctx, key, data); err != nil {
		log.Printf("Asset cache: %v", err)
	} else if layer != "" {
		log.Printf("Asset cache: MISS for %s, cached in %s", key, layer)
	}

	trace.Finish(sourceLayer, int64(len(data)))
	s.metrics.RecordAssetRequest(sourceLayer, "miss", trace.Elapsed())
	return &Asset{Key: key, Body: io.NopCloser(bytes.NewReader(data)), Size: int64(len(data)), Trace: trace}, nil
}

// Warm loads the given catalog image files into the cache layers with a
// bounded number of workers.
func (s *AssetService) Warm(ctx context.Context, files []string, workers int) *metrics.WarmupReport {
	if workers <= 0 {
		workers = 4
	}
	report := metrics.NewWarmupReport(len(files))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)
	for _, file := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			asset, err := s.Open(ctx, DrawingsPrefix+normalizer.NormalizeFilename(file))
			if err != nil {
				mu.Lock()
				report.ErrorCount++
				report.Layer(sourceLayer).FailedCount++
				mu.Unlock()
				return
			}
			n, _ := io.Copy(io.Discard, asset.Body)
			asset.Body.Close()

			mu.Lock()
			defer mu.Unlock()
			layer := report.Layer(asset.Trace.LayerUsed)
			if s.strategy.GetOptimalCache(n) == nil {
				layer.SkippedCount++
				return
			}
			layer.SuccessCount++
			layer.TotalSize += n
			report.TotalSize += n
		}(file)
	}
	wg.Wait()

	report.Finish()
	log.Printf("Asset cache: %s", report.GetSummary())
	return report
}

// Invalidate drops key from all cache layers.
func (s *AssetService) Invalidate(ctx context.Context, key string) error {
	key, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	return s.strategy.InvalidateObject(ctx, key)
}

func (s *AssetService) CacheStatistics() *MultiLayerCacheStats {
	return s.strategy.GetStatistics()
}

func (s *AssetService) ClearCache(ctx context.Context) error {
	return s.strategy.ClearAll(ctx)
}
