package storage

import (
	"context"
	"io/fs"
	"log"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"drawing-service/internal/config"
)

// NewMinioClient initializes a MinIO client and ensures the drawing bucket exists.
func NewMinioClient(ctx context.Context, cfg *config.Config) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSSL,
	})
	if err != nil {
		return nil, err
	}
	exists, errBucket := minioClient.BucketExists(ctx, cfg.MinioBucket)
	if errBucket != nil {
		return nil, errBucket
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: ""})
		if err != nil {
			return nil, err
		}
		log.Printf("Created bucket %s\n", cfg.MinioBucket)
	}
	return minioClient, nil
}

// SeedBucket uploads every file below root to the bucket, keyed by its
// slash-separated path relative to root.
func SeedBucket(ctx context.Context, client *minio.Client, bucket, root string) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(filepath.Ext(path))}
		if _, err := client.FPutObject(ctx, bucket, key, path, opts); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}
	log.Printf("Seeded bucket %s with %d objects", bucket, uploaded)
	return uploaded, nil
}
