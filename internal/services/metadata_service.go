package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"drawing-service/internal/metrics"
	"drawing-service/internal/models"
	"drawing-service/internal/normalizer"
	"drawing-service/internal/repository"
)

// ErrMetadataLoading is returned while the initial metadata fetch is pending.
var ErrMetadataLoading = errors.New("metadata is still loading")

// MetadataStatus describes the outcome of the latest load.
type MetadataStatus struct {
	Loaded       bool      `json:"loaded"`
	Source       string    `json:"source"`
	LoadedAt     time.Time `json:"loadedAt,omitempty"`
	Fallback     bool      `json:"fallback"`
	Error        string    `json:"error,omitempty"`
	Drawings     int       `json:"drawings"`
	Disciplines  int       `json:"disciplines"`
	SnapshotID   string    `json:"snapshotId,omitempty"`
	DocumentHash string    `json:"documentHash,omitempty"`
	Generation   uint64    `json:"generation"`
}

// CatalogSnapshot is one installed catalog. Generation grows whenever a
// different document or a fallback is installed.
type CatalogSnapshot struct {
	Generation uint64
	Processed  *models.ProcessedData
	Raw        *models.Metadata
}

// MetadataService fetches the metadata document once and holds the
// normalized drawing catalog.
type MetadataService struct {
	source     MetadataSource
	normalizer *normalizer.Normalizer
	snapshots  repository.SnapshotRepository
	metrics    *metrics.Metrics

	loadMu sync.Mutex

	mu         sync.RWMutex
	raw        *models.Metadata
	processed  *models.ProcessedData
	generation uint64
	status     MetadataStatus
	ready      chan struct{}
	readyOnce  sync.Once
}

// NewMetadataService creates the service. snapshots may be nil.
func NewMetadataService(source MetadataSource, n *normalizer.Normalizer, snapshots repository.SnapshotRepository, m *metrics.Metrics) *MetadataService {
	return &MetadataService{
		source:     source,
		normalizer: n,
		snapshots:  snapshots,
		metrics:    m,
		status:     MetadataStatus{Source: source.Name()},
		ready:      make(chan struct{}),
	}
}

// Start runs the initial load in the background.
func (s *MetadataService) Start(ctx context.Context) {
	go func() {
		_ = s.Load(ctx)
	}()
}

// Load fetches, decodes and normalizes the document. On any failure the
// fallback catalog is installed and the error is returned after logging.
func (s *MetadataService) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	started := time.Now()
	data, err := s.source.Fetch(ctx)
	var meta *models.Metadata
	if err == nil {
		meta, err = models.DecodeMetadata(data)
	}
	if err != nil {
		log.Printf("Metadata: load from %s failed, using empty catalog: %v", s.source.Name(), err)
		s.install(models.EmptyMetadata(), models.FallbackProcessedData(), MetadataStatus{
			Loaded:   true,
			Source:   s.source.Name(),
			LoadedAt: time.Now(),
			Fallback: true,
			Error:    err.Error(),
		})
		s.metrics.RecordMetadataLoad(s.source.Name(), "fallback")
		return err
	}

	processed := s.normalizer.Normalize(meta)
	sum := sha256.Sum256(data)
	status := MetadataStatus{
		Loaded:       true,
		Source:       s.source.Name(),
		LoadedAt:     time.Now(),
		DocumentHash: hex.EncodeToString(sum[:]),
	}
	if id, err := s.recordSnapshot(meta, data, status.DocumentHash); err != nil {
		log.Printf("Metadata: failed to record snapshot: %v", err)
	} else {
		status.SnapshotID = id
	}

	s.install(meta, processed, status)
	s.metrics.RecordMetadataLoad(s.source.Name(), "ok")
	log.Printf("Metadata: loaded %d drawings in %d disciplines from %s in %v",
		len(processed.Drawings), len(processed.Disciplines), s.source.Name(), time.Since(started))
	return nil
}

// Reload re-fetches the document. There is no automatic retry; this is the
// external trigger.
func (s *MetadataService) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// ProcessedData returns the catalog. ok is false while the first load is pending.
func (s *MetadataService) ProcessedData() (*models.ProcessedData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processed, s.processed != nil
}

// Raw returns the decoded document, or the empty document after a fallback.
func (s *MetadataService) Raw() (*models.Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw, s.raw != nil
}

// Snapshot returns the processed catalog, the raw document and their
// generation together. ok is false while the first load is pending.
func (s *MetadataService) Snapshot() (CatalogSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.processed == nil {
		return CatalogSnapshot{}, false
	}
	return CatalogSnapshot{Generation: s.generation, Processed: s.processed, Raw: s.raw}, true
}

func (s *MetadataService) Status() MetadataStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Wait blocks until the first load finished or ctx is done.
func (s *MetadataService) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MetadataService) install(raw *models.Metadata, processed *models.ProcessedData, status MetadataStatus) {
	status.Drawings = len(processed.Drawings)
	status.Disciplines = len(processed.Disciplines)

	s.mu.Lock()
	// Reinstalling the same document keeps sessions untouched.
	if status.DocumentHash == "" || status.DocumentHash != s.status.DocumentHash {
		s.generation++
	}
	status.Generation = s.generation
	s.raw = raw
	s.processed = processed
	s.status = status
	s.mu.Unlock()

	s.metrics.SetCatalogSize(status.Drawings, status.Disciplines)
	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *MetadataService) recordSnapshot(meta *models.Metadata, data []byte, checksum string) (string, error) {
	if s.snapshots == nil {
		return "", nil
	}
	existing, err := s.snapshots.FindByChecksum(checksum)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID.String(), nil
	}

	snapshot := &models.MetadataSnapshot{
		ID:           uuid.New(),
		ProjectName:  meta.Project.Name,
		Checksum:     checksum,
		DrawingCount: meta.Drawings.Len(),
		Document:     data,
	}
	if err := s.snapshots.Create(snapshot); err != nil {
		return "", err
	}
	log.Printf("Metadata: recorded snapshot %s (%s)", snapshot.ID, checksum[:12])
	return snapshot.ID.String(), nil
}
