package blobfs

import (
	"context"
	"io"
)

// ObjectStore defines the interface for flat-keyspace storage drivers.
//
// Keys are opaque strings with "/" separators; drivers never interpret
// them as paths. All hierarchy emulation (markers, prefixes, renames)
// happens above this interface in FileSystem.
type ObjectStore interface {
	// EnsureContainer obtains or creates the backing container and
	// applies the visibility policy. It is idempotent: calling it when
	// the container already exists is safe.
	EnsureContainer(ctx context.Context, visibility Visibility) error

	// Stat retrieves metadata for an object. It returns
	// ErrObjectNotFound when the key is absent.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)

	// Get opens the object for reading. The caller must close the
	// returned stream. Returns ErrObjectNotFound when the key is absent.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes the object, replacing any previous content.
	Put(ctx context.Context, key string, r io.Reader) error

	// Delete removes the object. Deleting an absent key is not an
	// error; existence guards live above this interface.
	Delete(ctx context.Context, key string) error

	// Copy duplicates srcKey to dstKey within the container. Returns
	// ErrObjectNotFound when srcKey is absent.
	Copy(ctx context.Context, srcKey, dstKey string) error

	// List returns the immediate children of prefix: objects directly
	// under it plus the common sub-prefixes one level down (delimiter
	// "/"). The prefix must be "" or end with "/".
	List(ctx context.Context, prefix string) ([]Entry, error)

	// PublicURL returns the absolute address of a key. It performs no
	// I/O and does not check existence.
	PublicURL(key string) string
}
