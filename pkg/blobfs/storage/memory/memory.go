package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/blobfs/pkg/blobfs"
)

// Store is an in-memory implementation of the blobfs.ObjectStore
// interface. It is intended for tests and local development.
type Store struct {
	mu        sync.RWMutex
	container string
	created   bool
	visible   blobfs.Visibility
	objects   map[string]object
}

type object struct {
	data    []byte
	etag    string
	modTime time.Time
}

// New creates a new in-memory store for the named container.
func New(container string) *Store {
	return &Store{
		container: container,
		objects:   make(map[string]object),
	}
}

// EnsureContainer marks the container as created and records the
// visibility policy. Safe to call repeatedly.
func (s *Store) EnsureContainer(ctx context.Context, visibility blobfs.Visibility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.created {
		s.created = true
		s.visible = visibility
	}
	return nil
}

// Visibility returns the policy the container was created with.
func (s *Store) Visibility() blobfs.Visibility {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

// Stat retrieves metadata for an object.
func (s *Store) Stat(ctx context.Context, key string) (*blobfs.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, blobfs.ErrObjectNotFound
	}
	return s.info(key, obj), nil
}

// Get opens the object for reading.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[key]
	if !exists {
		return nil, blobfs.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Put writes the object, replacing any previous content.
func (s *Store) Put(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[key] = object{
		data:    data,
		etag:    uuid.NewString(),
		modTime: time.Now().UTC(),
	}
	return nil
}

// Delete removes the object. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

// Copy duplicates srcKey to dstKey.
func (s *Store) Copy(ctx context.Context, srcKey, dstKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, exists := s.objects[srcKey]
	if !exists {
		return blobfs.ErrObjectNotFound
	}
	dst := object{
		data:    make([]byte, len(src.data)),
		etag:    uuid.NewString(),
		modTime: time.Now().UTC(),
	}
	copy(dst.data, src.data)
	s.objects[dstKey] = dst
	return nil
}

// List returns the immediate children of prefix: objects directly
// under it plus distinct one-level sub-prefixes, both sorted by key.
func (s *Store) List(ctx context.Context, prefix string) ([]blobfs.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var objectKeys []string
	subPrefixes := make(map[string]struct{})

	for key := range s.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			subPrefixes[prefix+rest[:i+1]] = struct{}{}
		} else {
			objectKeys = append(objectKeys, key)
		}
	}

	var entries []blobfs.Entry
	sort.Strings(objectKeys)
	for _, key := range objectKeys {
		entries = append(entries, blobfs.Entry{
			Kind:   blobfs.EntryObject,
			Object: s.info(key, s.objects[key]),
		})
	}

	prefixes := make([]string, 0, len(subPrefixes))
	for p := range subPrefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		entries = append(entries, blobfs.Entry{Kind: blobfs.EntryPrefix, Prefix: p})
	}
	return entries, nil
}

// PublicURL returns a memory:// pseudo-address for the key.
func (s *Store) PublicURL(key string) string {
	return fmt.Sprintf("memory://%s/%s", s.container, key)
}

func (s *Store) info(key string, obj object) *blobfs.ObjectInfo {
	return &blobfs.ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  "application/octet-stream",
		ETag:         obj.etag,
		LastModified: obj.modTime,
	}
}
