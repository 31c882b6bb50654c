// Package media persists uploaded images in object storage and hands back
// stable reference URLs. Image processing (resizing, format conversion) is
// out of scope; bytes go in as-is.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Store saves raw image content and returns a reference URL.
type Store interface {
	Save(ctx context.Context, contentType string, r io.Reader, size int64) (string, error)
}

// objectAPI is the subset of *minio.Client the store needs; narrowed so tests
// can substitute a fake without a running MinIO server.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioStore implements Store on a MinIO (or S3-compatible) bucket.
type MinioStore struct {
	api     objectAPI
	bucket  string
	baseURL string
}

// NewMinioStore wraps an initialized MinIO client. baseURL is the public
// prefix under which bucket objects are served.
func NewMinioStore(ctx context.Context, client *minio.Client, bucket, baseURL string) (*MinioStore, error) {
	return newMinioStoreWithAPI(ctx, client, bucket, baseURL)
}

func newMinioStoreWithAPI(ctx context.Context, api objectAPI, bucket, baseURL string) (*MinioStore, error) {
	s := &MinioStore{
		api:     api,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return s, nil
}

// Save uploads the content under a fresh object key and returns its URL.
func (s *MinioStore) Save(ctx context.Context, contentType string, r io.Reader, size int64) (string, error) {
	key := uuid.NewString() + extensionFor(contentType)
	_, err := s.api.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
