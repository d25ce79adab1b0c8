// Package storage adapts the S3-compatible object store. Buckets are
// private; uploads are only ever referenced by key and read through
// presigned URLs. A failed submission can leave an already-uploaded object
// behind — there is no automatic reconciliation, the cycle reset (or manual
// cleanup) removes orphans.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store wraps the object-store client with the service's key and signing
// conventions.
type Store struct {
	client *minio.Client
	expiry time.Duration
	now    func() time.Time
}

// New connects to the object store. expiry is the signed-URL lifetime.
func New(endpoint, accessKey, secretKey string, useSSL bool, expiry time.Duration) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &Store{client: client, expiry: expiry, now: time.Now}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload stores data under a collision-avoiding key derived from the
// submission timestamp and the sanitized original filename, and returns
// the key. The raw bytes are never exposed again, only the key.
func (s *Store) Upload(ctx context.Context, bucket, folder, filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("file %s is empty", filename)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := BuildKey(folder, filename, s.now().UTC())
	_, err := s.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// SignedURL resolves a stored key to a time-limited read URL.
func (s *Store) SignedURL(ctx context.Context, bucket, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	return u.String(), nil
}

// Clear bulk-deletes every object in the bucket. Used by the cycle reset.
func (s *Store) Clear(ctx context.Context, bucket string) error {
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list %s: %w", bucket, obj.Err)
		}
		if err := s.client.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove %s/%s: %w", bucket, obj.Key, err)
		}
	}
	return nil
}

// BuildKey derives the stored key: folder/20060102T150405Z_safeName.
func BuildKey(folder, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%s_%s", folder, at.Format("20060102T150405Z"), SafeName(filename))
}

// SafeName strips path separators from a client-supplied filename.
func SafeName(filename string) string {
	r := strings.NewReplacer("/", "_", "\\", "_")
	return r.Replace(filename)
}
