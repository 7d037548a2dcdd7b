package minio

import (
	"errors"
	"net/http"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/blobfs/pkg/blobfs"
)

func TestMinioStoreConfiguration(t *testing.T) {
	t.Run("EmptyBucket", func(t *testing.T) {
		_, err := New(Config{Endpoint: "localhost:9000"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("Valid", func(t *testing.T) {
		store, err := New(Config{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "content",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/content/docs/a.txt", store.PublicURL("docs/a.txt"))
	})

	t.Run("SSLEndpoint", func(t *testing.T) {
		store, err := New(Config{
			Endpoint:  "play.min.io",
			AccessKey: "key",
			SecretKey: "secret",
			UseSSL:    true,
			Bucket:    "content",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://play.min.io/content/a.txt", store.PublicURL("a.txt"))
	})
}

func TestWrapErrorMapping(t *testing.T) {
	store := &Store{bucket: "content"}

	tests := []struct {
		name     string
		err      error
		notFound bool
	}{
		{"NoSuchKey code", miniogo.ErrorResponse{Code: "NoSuchKey"}, true},
		{"NoSuchBucket code", miniogo.ErrorResponse{Code: "NoSuchBucket"}, true},
		{"404 status", miniogo.ErrorResponse{Code: "Whatever", StatusCode: http.StatusNotFound}, true},
		{"AccessDenied", miniogo.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := store.wrap("stat", "docs/a.txt", tt.err)
			assert.Equal(t, tt.notFound, errors.Is(wrapped, blobfs.ErrObjectNotFound))

			var storageErr *blobfs.StorageError
			require.True(t, errors.As(wrapped, &storageErr))
			assert.Equal(t, "minio", storageErr.Store)
			assert.Equal(t, "stat", storageErr.Op)
			assert.Equal(t, "docs/a.txt", storageErr.Key)
		})
	}
}
