// Package config loads blobfs configuration from the environment and
// builds stores from a single storage URL, so callers wire one value
// instead of a driver-specific struct.
//
// Storage URL forms:
//
//	memory://container                           In-memory store
//	s3://bucket?region=us-east-1                 AWS S3
//	s3://bucket?endpoint=http://host:9000        S3-compatible service
//	minio://host:9000/bucket                     MinIO (native client)
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tendant/blobfs/pkg/blobfs"
	memorystore "github.com/tendant/blobfs/pkg/blobfs/storage/memory"
	miniostore "github.com/tendant/blobfs/pkg/blobfs/storage/minio"
	s3store "github.com/tendant/blobfs/pkg/blobfs/storage/s3"
)

// Config holds everything needed to open a FileSystem.
type Config struct {
	StorageURL      string `env:"BLOBFS_STORAGE_URL" env-default:"memory://content"`
	Root            string `env:"BLOBFS_ROOT" env-default:""`
	Visibility      string `env:"BLOBFS_VISIBILITY" env-default:"private"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	UseSSL          bool   `env:"BLOBFS_USE_SSL" env-default:"false"`
}

// Option mutates a Config during Load.
type Option func(*Config) error

// Load builds a Config from the given options, applied in order.
func Load(opts ...Option) (*Config, error) {
	cfg := &Config{
		StorageURL: "memory://content",
		Visibility: string(blobfs.Private),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithEnv reads configuration from environment variables.
func WithEnv() Option {
	return func(c *Config) error {
		if err := cleanenv.ReadEnv(c); err != nil {
			return fmt.Errorf("failed to read configuration: %w", err)
		}
		return nil
	}
}

// WithStorageURL sets the storage URL programmatically.
func WithStorageURL(u string) Option {
	return func(c *Config) error {
		c.StorageURL = u
		return nil
	}
}

// WithRoot sets the virtual namespace root prefix.
func WithRoot(root string) Option {
	return func(c *Config) error {
		c.Root = root
		return nil
	}
}

// WithVisibility sets the container visibility policy.
func WithVisibility(v blobfs.Visibility) Option {
	return func(c *Config) error {
		c.Visibility = string(v)
		return nil
	}
}

// ParseVisibility validates the configured visibility value.
func (c *Config) ParseVisibility() (blobfs.Visibility, error) {
	switch c.Visibility {
	case "", string(blobfs.Private):
		return blobfs.Private, nil
	case string(blobfs.PublicRead):
		return blobfs.PublicRead, nil
	default:
		return "", fmt.Errorf("unsupported visibility %q (use %q or %q)",
			c.Visibility, blobfs.Private, blobfs.PublicRead)
	}
}

// OpenStore resolves the storage URL into a driver. Credentials are
// resolved here, once; the returned store is ready for binding.
func (c *Config) OpenStore() (blobfs.ObjectStore, error) {
	u, err := url.Parse(c.StorageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid storage URL %q: %w", c.StorageURL, err)
	}

	switch u.Scheme {
	case "memory":
		container := u.Host
		if container == "" {
			container = "content"
		}
		return memorystore.New(container), nil

	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("s3 storage URL %q is missing a bucket", c.StorageURL)
		}
		q := u.Query()
		return s3store.New(s3store.Config{
			Bucket:          u.Host,
			Region:          q.Get("region"),
			Endpoint:        q.Get("endpoint"),
			UsePathStyle:    q.Get("endpoint") != "",
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
		})

	case "minio":
		bucket := strings.Trim(u.Path, "/")
		if u.Host == "" || bucket == "" {
			return nil, fmt.Errorf("minio storage URL %q must be minio://host:port/bucket", c.StorageURL)
		}
		return miniostore.New(miniostore.Config{
			Endpoint:  u.Host,
			Bucket:    bucket,
			AccessKey: c.AccessKeyID,
			SecretKey: c.SecretAccessKey,
			UseSSL:    c.UseSSL,
		})

	default:
		return nil, fmt.Errorf("unsupported storage URL scheme %q (use memory, s3 or minio)", u.Scheme)
	}
}

// OpenFileSystem opens the store and binds a FileSystem to it,
// applying the configured root and visibility plus any extra options.
func (c *Config) OpenFileSystem(ctx context.Context, extra ...blobfs.Option) (*blobfs.FileSystem, error) {
	store, err := c.OpenStore()
	if err != nil {
		return nil, err
	}
	visibility, err := c.ParseVisibility()
	if err != nil {
		return nil, err
	}
	opts := append([]blobfs.Option{
		blobfs.WithRoot(c.Root),
		blobfs.WithVisibility(visibility),
	}, extra...)
	return blobfs.New(ctx, store, opts...)
}
