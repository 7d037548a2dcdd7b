package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tendant/blobfs/pkg/blobfs"
)

// Config options for the S3 store
type Config struct {
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
}

// Store is an S3-compatible implementation of the blobfs.ObjectStore
// interface.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	config  Config
}

// New creates a new S3-compatible store. Credentials are resolved once
// here; an unresolvable configuration fails fast.
func New(config Config) (*Store, error) {
	if config.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)

	// Custom endpoint for S3-compatible services (MinIO, etc.)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	return &Store{
		client:  s3.NewFromConfig(awsCfg, s3Options...),
		bucket:  config.Bucket,
		baseURL: baseURL(config),
		config:  config,
	}, nil
}

// baseURL derives the public address root for the bucket. Custom
// endpoints use path-style addressing; plain AWS uses virtual-hosted.
func baseURL(config Config) string {
	if config.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(config.Endpoint, "/"), config.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.Bucket, config.Region)
}

// EnsureContainer creates the bucket if it doesn't exist and applies
// the visibility policy. Safe to call when the bucket is already there.
func (s *Store) EnsureContainer(ctx context.Context, visibility blobfs.Visibility) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})

	if err != nil {
		// Handle multiple error shapes for MinIO compatibility
		var notFound *types.NotFound
		var noSuchBucket *types.NoSuchBucket

		if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) &&
			!strings.Contains(err.Error(), "BadRequest") &&
			!strings.Contains(err.Error(), "NoSuchBucket") {
			return fmt.Errorf("failed to check bucket: %w", err)
		}

		createInput := &s3.CreateBucketInput{
			Bucket: aws.String(s.bucket),
		}
		if s.config.Region != "us-east-1" {
			createInput.CreateBucketConfiguration = &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(s.config.Region),
			}
		}

		if _, err := s.client.CreateBucket(ctx, createInput); err != nil {
			if !strings.Contains(err.Error(), "BucketAlreadyExists") &&
				!strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
				return fmt.Errorf("failed to create bucket: %w", err)
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
		_, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(s.bucket),
			Policy: aws.String(policy),
		})
		if err != nil {
			return fmt.Errorf("failed to apply public-read policy: %w", err)
		}
	}

	return nil
}

// Stat retrieves metadata for an object in S3.
func (s *Store) Stat(ctx context.Context, key string) (*blobfs.ObjectInfo, error) {
	result, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.wrap("stat", key, err)
	}

	info := &blobfs.ObjectInfo{
		Key:  key,
		Size: aws.ToInt64(result.ContentLength),
	}
	if result.ContentType != nil {
		info.ContentType = *result.ContentType
	}
	if result.LastModified != nil {
		info.LastModified = *result.LastModified
	}
	if result.ETag != nil {
		info.ETag = strings.Trim(*result.ETag, "\"")
	}
	return info, nil
}

// Get opens the object for reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.wrap("get", key, err)
	}
	return result.Body, nil
}

// Put uploads the object through the transfer manager.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) error {
	uploader := manager.NewUploader(s.client)

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return s.wrap("put", key, err)
	}
	return nil
}

// Delete removes the object. S3 deletes are idempotent; a missing key
// is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.wrap("delete", key, err)
	}
	return nil
}

// Copy duplicates srcKey to dstKey within the bucket.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + srcKey),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return s.wrap("copy", srcKey, err)
	}
	return nil
}

// List returns the immediate children of prefix using a delimiter
// listing, paginating until exhausted.
func (s *Store) List(ctx context.Context, prefix string) ([]blobfs.Entry, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	var entries []blobfs.Entry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.wrap("list", prefix, err)
		}
		for _, obj := range page.Contents {
			info := &blobfs.ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			if obj.ETag != nil {
				info.ETag = strings.Trim(*obj.ETag, "\"")
			}
			entries = append(entries, blobfs.Entry{Kind: blobfs.EntryObject, Object: info})
		}
		for _, cp := range page.CommonPrefixes {
			entries = append(entries, blobfs.Entry{Kind: blobfs.EntryPrefix, Prefix: aws.ToString(cp.Prefix)})
		}
	}
	return entries, nil
}

// PublicURL returns the absolute address of the key.
func (s *Store) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// wrap classifies an S3 API error, surfacing missing keys as
// blobfs.ErrObjectNotFound and anything else as a StorageError.
func (s *Store) wrap(op, key string, err error) error {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return &blobfs.StorageError{Store: "s3", Key: key, Op: op, Err: blobfs.ErrObjectNotFound}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return &blobfs.StorageError{Store: "s3", Key: key, Op: op, Err: blobfs.ErrObjectNotFound}
		}
	}

	return &blobfs.StorageError{Store: "s3", Key: key, Op: op, Err: err}
}
