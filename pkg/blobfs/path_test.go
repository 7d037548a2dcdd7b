package blobfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinKey(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		path    string
		want    string
		wantErr bool
	}{
		{"empty root and path", "", "", "", false},
		{"empty root", "", "docs/a.txt", "docs/a.txt", false},
		{"root and path", "media", "docs/a.txt", "media/docs/a.txt", false},
		{"root only", "media", "", "media", false},
		{"trailing slash trimmed", "media", "docs/", "media/docs", false},
		{"root slashes trimmed", "/media/", "a.txt", "media/a.txt", false},
		{"absolute path", "", "/docs/a.txt", "", true},
		{"absolute path under root", "media", "/a.txt", "", true},
		{"http scheme", "", "http://host/a.txt", "", true},
		{"s3 scheme", "media", "s3://bucket/a.txt", "", true},
		{"custom scheme", "", "my-scheme+v1://x", "", true},
		{"scheme-like segment is fine", "", "docs/http:/a.txt", "docs/http:/a.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JoinKey(tt.root, tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPath)

				var pathErr *PathError
				require.True(t, errors.As(err, &pathErr))
				assert.Equal(t, tt.path, pathErr.Path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChildPrefix(t *testing.T) {
	assert.Equal(t, "", childPrefix(""))
	assert.Equal(t, "docs/", childPrefix("docs"))
	assert.Equal(t, "media/docs/", childPrefix("media/docs"))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "a.txt", baseName("docs/a.txt"))
	assert.Equal(t, "docs", baseName("docs"))
	assert.Equal(t, "sub", baseName("docs/sub/"))
	assert.Equal(t, "", baseName(""))
}

func TestParentPath(t *testing.T) {
	parent, ok := parentPath("docs/sub")
	require.True(t, ok)
	assert.Equal(t, "docs", parent)

	parent, ok = parentPath("docs")
	require.True(t, ok)
	assert.Equal(t, "", parent)

	_, ok = parentPath("")
	assert.False(t, ok)
}
