// Package minio provides a MinIO-native implementation of
// blobfs.ObjectStore.
//
// Usage:
//
//	store, err := minio.New(minio.Config{
//		Endpoint:  "localhost:9000",
//		AccessKey: "minioadmin",
//		SecretKey: "minioadmin",
//		Bucket:    "content",
//	})
//	if err != nil { ... }
//	fsys, err := blobfs.New(ctx, store)
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tendant/blobfs/pkg/blobfs"
)

// Config holds the settings needed to connect to a MinIO server.
type Config struct {
	// Endpoint is the host:port of the storage server.
	// Example: "localhost:9000" for local MinIO.
	Endpoint string

	// AccessKey is the access key ID.
	AccessKey string

	// SecretKey is the secret access key.
	SecretKey string

	// UseSSL controls whether TLS is used for the connection.
	UseSSL bool

	// Region is used by region-aware deployments. Leave empty for
	// plain MinIO.
	Region string

	// Bucket is the backing container name.
	Bucket string
}

// Store is a MinIO implementation of blobfs.ObjectStore. It is safe
// for concurrent use by multiple goroutines.
type Store struct {
	client *miniogo.Client
	bucket string
}

// New connects to MinIO using the provided Config. Credentials are
// resolved once here; a bad endpoint fails fast.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// EnsureContainer creates the bucket if it doesn't exist and applies
// the visibility policy. Safe to call when the bucket is already there.
func (s *Store) EnsureContainer(ctx context.Context, visibility blobfs.Visibility) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return s.wrap("bucket-exists", "", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{}); err != nil {
			// Another caller may have created it in between.
			resp := miniogo.ToErrorResponse(err)
			if resp.Code != "BucketAlreadyOwnedByYou" && resp.Code != "BucketAlreadyExists" {
				return s.wrap("make-bucket", "", err)
			}
		}
	}

	if visibility == blobfs.PublicRead {
		policy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`, s.bucket)
		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			return s.wrap("set-policy", "", err)
		}
	}

	return nil
}

// Stat returns metadata for the object at key without downloading its
// content.
func (s *Store) Stat(ctx context.Context, key string) (*blobfs.ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, s.wrap("stat", key, err)
	}
	return infoFrom(key, stat), nil
}

// Get opens a streaming handle to the object at key. The caller MUST
// close it after reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, s.wrap("get", key, err)
	}

	// GetObject is lazy; stat the handle so a missing key surfaces
	// here instead of on first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, s.wrap("get", key, err)
	}
	return obj, nil
}

// Put writes the object, replacing any previous content.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, -1, miniogo.PutObjectOptions{})
	if err != nil {
		return s.wrap("put", key, err)
	}
	return nil
}

// Delete removes the object. MinIO deletes are idempotent; a missing
// key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return s.wrap("delete", key, err)
	}
	return nil
}

// Copy duplicates srcKey to dstKey within the bucket.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx,
		miniogo.CopyDestOptions{Bucket: s.bucket, Object: dstKey},
		miniogo.CopySrcOptions{Bucket: s.bucket, Object: srcKey},
	)
	if err != nil {
		return s.wrap("copy", srcKey, err)
	}
	return nil
}

// List returns the immediate children of prefix. MinIO's non-recursive
// listing reports common sub-prefixes as entries whose key ends in "/".
func (s *Store) List(ctx context.Context, prefix string) ([]blobfs.Entry, error) {
	opts := miniogo.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}

	var entries []blobfs.Entry
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, s.wrap("list", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			entries = append(entries, blobfs.Entry{Kind: blobfs.EntryPrefix, Prefix: obj.Key})
			continue
		}
		entries = append(entries, blobfs.Entry{Kind: blobfs.EntryObject, Object: infoFrom(obj.Key, obj)})
	}
	return entries, nil
}

// PublicURL returns the absolute address of the key.
func (s *Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key)
}

// wrap translates a MinIO SDK error, surfacing missing keys as
// blobfs.ErrObjectNotFound and anything else as a StorageError.
func (s *Store) wrap(op, key string, err error) error {
	resp := miniogo.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return &blobfs.StorageError{Store: "minio", Key: key, Op: op, Err: blobfs.ErrObjectNotFound}
	}
	return &blobfs.StorageError{Store: "minio", Key: key, Op: op, Err: err}
}

func infoFrom(key string, stat miniogo.ObjectInfo) *blobfs.ObjectInfo {
	return &blobfs.ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}
}
