package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"drawing-service/internal/repository"
	"drawing-service/internal/storage"
)

// MetadataSource fetches the raw metadata document.
type MetadataSource interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// StoreSource reads the metadata document from the asset store.
type StoreSource struct {
	store storage.AssetStore
	key   string
}

func NewStoreSource(store storage.AssetStore, key string) *StoreSource {
	return &StoreSource{store: store, key: key}
}

func (s *StoreSource) Name() string {
	return s.store.Name()
}

func (s *StoreSource) Fetch(ctx context.Context) ([]byte, error) {
	rc, _, err := s.store.Open(ctx, s.key)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open %s", s.key)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", s.key)
	}
	return data, nil
}

// HTTPSource fetches the metadata document from a URL.
type HTTPSource struct {
	url     string
	timeout time.Duration
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{url: url, timeout: timeout}
}

func (s *HTTPSource) Name() string {
	return "http"
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agent := fiber.Get(s.url)
	if s.timeout > 0 {
		agent.Timeout(s.timeout)
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "could not fetch %s", s.url)
	}
	if code < 200 || code > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.url, code)
	}
	return body, nil
}

// SnapshotSource serves the most recently recorded snapshot.
type SnapshotSource struct {
	repo repository.SnapshotRepository
}

func NewSnapshotSource(repo repository.SnapshotRepository) *SnapshotSource {
	return &SnapshotSource{repo: repo}
}

func (s *SnapshotSource) Name() string {
	return "postgres"
}

func (s *SnapshotSource) Fetch(ctx context.Context) ([]byte, error) {
	snapshot, err := s.repo.Latest()
	if err != nil {
		return nil, errors.Wrap(err, "could not load latest snapshot")
	}
	return []byte(snapshot.Document), nil
}
