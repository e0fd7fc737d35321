package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

var (
	// ErrAssetNotFound is returned when the store has no object under a key.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrInvalidAssetKey is returned for keys that escape the store root.
	ErrInvalidAssetKey = errors.New("invalid asset key")
)

// AssetStore reads the metadata document and drawing images by key. Keys are
// slash separated and relative to the store root, e.g. "drawings/1F.png".
type AssetStore interface {
	Name() string
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

// CleanKey validates a key and returns its canonical form.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidAssetKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidAssetKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidAssetKey
		}
	}
	return cleaned, nil
}

// DirStore serves assets from a local directory.
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (s *DirStore) Name() string {
	return "DIR"
}

// Root returns the directory the store reads from.
func (s *DirStore) Root() string {
	return s.root
}

func (s *DirStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, 0, err
	}
	p := filepath.Join(s.root, filepath.FromSlash(cleaned))

	stat, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, errors.Wrapf(ErrAssetNotFound, "key %s", cleaned)
		}
		return nil, 0, errors.Wrap(err, "could not stat asset")
	}
	if stat.IsDir() {
		return nil, 0, errors.Wrapf(ErrAssetNotFound, "key %s is a directory", cleaned)
	}

	file, err := os.Open(p)
	if err != nil {
		return nil, 0, errors.Wrap(err, "could not open asset")
	}
	return file, stat.Size(), nil
}

// MinioStore serves assets from a MinIO bucket.
type MinioStore struct {
	client     *minio.Client
	bucketName string
}

func NewMinioStore(client *minio.Client, bucketName string) *MinioStore {
	return &MinioStore{client: client, bucketName: bucketName}
}

func (s *MinioStore) Name() string {
	return "MINIO"
}

func (s *MinioStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, 0, err
	}

	stat, err := s.client.StatObject(ctx, s.bucketName, cleaned, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, errors.Wrapf(ErrAssetNotFound, "key %s", cleaned)
		}
		return nil, 0, errors.Wrap(err, "failed to stat object in MinIO")
	}

	object, err := s.client.GetObject(ctx, s.bucketName, cleaned, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to get object from MinIO")
	}
	return object, stat.Size, nil
}
