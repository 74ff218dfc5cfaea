package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mediary/service/internal/media"
)

// Stored objects are immutable (ids are unique or content-addressed), so
// clients may cache them for a year.
const cacheControl = "max-age=31536000"

// objectAPI is the slice of the MinIO client used by MinioStorage. Narrow on
// purpose so tests can substitute a fake.
type objectAPI interface {
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     objectAPI
	bucket     string
	publicBase string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists with a
// public-read policy, and returns a ready-to-use MinioStorage.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		slog.Info("created bucket", slog.String("bucket", bucket))
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload stores data under the variant's namespace and returns its public URL.
func (s *MinioStorage) Upload(ctx context.Context, id string, variant media.Variant, contentType string, data []byte) (string, error) {
	key := keyFor(variant, id)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("put object %q: %w", key, err)
	}
	return s.publicURL(key), nil
}

// Stat probes object metadata without fetching the body. A missing object is
// reported as (nil, nil), never as an error.
func (s *MinioStorage) Stat(ctx context.Context, variant media.Variant, id string) (*Object, error) {
	key := keyFor(variant, id)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat object %q: %w", key, err)
	}
	return &Object{URL: s.publicURL(key), ContentType: info.ContentType}, nil
}

// keyFor derives the object key: objects are partitioned by variant and
// addressed by id within the partition.
func keyFor(variant media.Variant, id string) string {
	switch variant {
	case media.VariantThumbnail:
		return "images/thumbnails/" + id
	case media.VariantAvatar:
		return "images/avatars/" + id
	default:
		return "images/originals/" + id
	}
}

// publicURL returns the browser-accessible URL for the given key.
func (s *MinioStorage) publicURL(key string) string {
	return s.publicBase + "/" + key
}

// isNotFound reports whether err is the S3 "no such key" response.
func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET
// on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
