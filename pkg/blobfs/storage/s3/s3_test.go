package s3

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/blobfs/pkg/blobfs"
)

func TestS3StoreConfiguration(t *testing.T) {
	t.Run("EmptyBucket", func(t *testing.T) {
		_, err := New(Config{Region: "us-east-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("DefaultRegion", func(t *testing.T) {
		store, err := New(Config{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", store.config.Region)
	})

	t.Run("PublicURLVirtualHosted", func(t *testing.T) {
		store, err := New(Config{
			Bucket:          "content",
			Region:          "eu-west-1",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		})
		require.NoError(t, err)
		assert.Equal(t,
			"https://content.s3.eu-west-1.amazonaws.com/docs/a.txt",
			store.PublicURL("docs/a.txt"))
	})

	t.Run("PublicURLCustomEndpoint", func(t *testing.T) {
		store, err := New(Config{
			Bucket:          "content",
			Endpoint:        "http://localhost:9000/",
			UsePathStyle:    true,
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		})
		require.NoError(t, err)
		assert.Equal(t,
			"http://localhost:9000/content/docs/a.txt",
			store.PublicURL("docs/a.txt"))
	})
}

// TestS3StoreIntegration runs the store contract against a live
// S3-compatible endpoint (MinIO). Set BLOBFS_TEST_S3_ENDPOINT to enable:
//
//	BLOBFS_TEST_S3_ENDPOINT=http://localhost:9000 \
//	AWS_ACCESS_KEY_ID=minioadmin AWS_SECRET_ACCESS_KEY=minioadmin \
//	go test ./pkg/blobfs/storage/s3/...
func TestS3StoreIntegration(t *testing.T) {
	endpoint := os.Getenv("BLOBFS_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("BLOBFS_TEST_S3_ENDPOINT not set; skipping integration test")
	}

	store, err := New(Config{
		Bucket:          "blobfs-test",
		Endpoint:        endpoint,
		UsePathStyle:    true,
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.EnsureContainer(ctx, blobfs.Private))

	key := "integration/a.txt"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("hello")))
	defer store.Delete(ctx, key)

	info, err := store.Stat(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)

	r, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Copy(ctx, key, "integration/b.txt"))
	defer store.Delete(ctx, "integration/b.txt")

	entries, err := store.List(ctx, "integration/")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = store.Stat(ctx, "integration/missing")
	assert.ErrorIs(t, err, blobfs.ErrObjectNotFound)
}
