package caches

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"drawing-service/internal/services/cache"
)

const cacheFileExt = ".img"

// FileSystemCache keeps copies of remote drawing images on local disk.
type FileSystemCache struct {
	basePath    string
	maxSize     int64
	maxObject   int64
	currentSize atomic.Int64
	ttl         time.Duration
	mu          sync.Mutex

	hits   atomic.Int64
	misses atomic.Int64
}

func NewFileSystemCache(basePath string, maxSizeBytes, maxObjectBytes int64, ttl time.Duration) (*FileSystemCache, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	fsc := &FileSystemCache{
		basePath:  basePath,
		maxSize:   maxSizeBytes,
		maxObject: maxObjectBytes,
		ttl:       ttl,
	}
	fsc.calculateCurrentSize()
	return fsc, nil
}

func (fsc *FileSystemCache) Name() string {
	return "FILESYSTEM"
}

func (fsc *FileSystemCache) MaxObjectSize() int64 {
	return fsc.maxObject
}

func (fsc *FileSystemCache) Store(ctx context.Context, key string, data []byte) error {
	size := int64(len(data))
	if size > fsc.maxSize || (fsc.maxObject > 0 && size > fsc.maxObject) {
		return fmt.Errorf("object of size %d exceeds file cache limits", size)
	}

	fsc.mu.Lock()
	defer fsc.mu.Unlock()

	filePath := fsc.filePath(key)
	if stat, err := os.Stat(filePath); err == nil {
		fsc.currentSize.Add(-stat.Size())
	}
	for fsc.currentSize.Load()+size > fsc.maxSize {
		if !fsc.evictOldestFile() {
			return fmt.Errorf("unable to free space for file of size %d", size)
		}
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	fsc.currentSize.Add(size)
	log.Printf("File cache: stored %s (%d bytes) at %s", key, size, filePath)
	return nil
}

func (fsc *FileSystemCache) Get(ctx context.Context, key string) ([]byte, error) {
	filePath := fsc.filePath(key)

	stat, err := os.Stat(filePath)
	if err != nil {
		fsc.misses.Add(1)
		return nil, cache.ErrMiss
	}
	if fsc.ttl > 0 && time.Since(stat.ModTime()) > fsc.ttl {
		fsc.misses.Add(1)
		_ = fsc.Delete(ctx, key)
		return nil, cache.ErrMiss
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		fsc.misses.Add(1)
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	fsc.hits.Add(1)
	return data, nil
}

func (fsc *FileSystemCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(fsc.filePath(key))
	return err == nil, nil
}

func (fsc *FileSystemCache) Delete(ctx context.Context, key string) error {
	fsc.mu.Lock()
	defer fsc.mu.Unlock()

	filePath := fsc.filePath(key)
	if stat, err := os.Stat(filePath); err == nil {
		if err := os.Remove(filePath); err != nil {
			return err
		}
		fsc.currentSize.Add(-stat.Size())
		log.Printf("File cache: deleted %s (%d bytes)", key, stat.Size())
	}
	return nil
}

func (fsc *FileSystemCache) Clear(ctx context.Context) error {
	fsc.mu.Lock()
	defer fsc.mu.Unlock()

	if err := os.RemoveAll(fsc.basePath); err != nil {
		return err
	}
	if err := os.MkdirAll(fsc.basePath, 0755); err != nil {
		return err
	}
	fsc.currentSize.Store(0)
	fsc.hits.Store(0)
	fsc.misses.Store(0)
	log.Printf("File cache: cleared all objects")
	return nil
}

func (fsc *FileSystemCache) GetStats() cache.LayerStats {
	hits, misses := fsc.hits.Load(), fsc.misses.Load()
	return cache.LayerStats{
		Name:      "FileSystem",
		Objects:   len(fsc.cacheFiles()),
		SizeBytes: fsc.currentSize.Load(),
		Hits:      hits,
		Misses:    misses,
		HitRate:   cache.HitRate(hits, misses),
	}
}

// CleanupExpired removes files older than the TTL.
func (fsc *FileSystemCache) CleanupExpired() int {
	if fsc.ttl <= 0 {
		return 0
	}
	fsc.mu.Lock()
	defer fsc.mu.Unlock()

	now := time.Now()
	removed := 0
	for _, file := range fsc.cacheFiles() {
		if now.Sub(file.modTime) <= fsc.ttl {
			continue
		}
		if os.Remove(file.path) == nil {
			fsc.currentSize.Add(-file.size)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("File cache: cleaned up %d expired files", removed)
	}
	return removed
}

// RunCleanup removes expired files every interval until ctx is done.
func (fsc *FileSystemCache) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fsc.CleanupExpired()
		}
	}
}

// Asset keys may contain any character, so files are named by key digest.
func (fsc *FileSystemCache) filePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(fsc.basePath, hex.EncodeToString(sum[:])+cacheFileExt)
}

type cacheFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (fsc *FileSystemCache) cacheFiles() []cacheFile {
	var files []cacheFile
	filepath.Walk(fsc.basePath, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() && filepath.Ext(path) == cacheFileExt {
			files = append(files, cacheFile{path: path, size: info.Size(), modTime: info.ModTime()})
		}
		return nil
	})
	return files
}

func (fsc *FileSystemCache) calculateCurrentSize() {
	var total int64
	for _, file := range fsc.cacheFiles() {
		total += file.size
	}
	fsc.currentSize.Store(total)
}

// evictOldestFile must be called with mu held.
func (fsc *FileSystemCache) evictOldestFile() bool {
	var oldest *cacheFile
	files := fsc.cacheFiles()
	for i := range files {
		if oldest == nil || files[i].modTime.Before(oldest.modTime) {
			oldest = &files[i]
		}
	}
	if oldest == nil || os.Remove(oldest.path) != nil {
		return false
	}
	fsc.currentSize.Add(-oldest.size)
	return true
}
