package blobfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMarkerName is the reserved name of the hidden zero-byte
// object that keeps an otherwise-empty folder in existence. Marker
// objects are filtered out of every listing.
const DefaultMarkerName = ".folder"

// FileSystem exposes a hierarchical file/folder API over a flat
// ObjectStore. It is safe for concurrent use; all state lives in the
// backing store.
type FileSystem struct {
	store      ObjectStore
	root       string
	marker     string
	visibility Visibility
	log        zerolog.Logger
}

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithRoot places the virtual namespace under the given prefix inside
// the container. An empty root (the default) uses the whole container.
func WithRoot(root string) Option {
	return func(fs *FileSystem) { fs.root = strings.Trim(root, "/") }
}

// WithVisibility sets the access policy applied when the container is
// created. The default is Private.
func WithVisibility(v Visibility) Option {
	return func(fs *FileSystem) { fs.visibility = v }
}

// WithMarkerName overrides the reserved folder marker name.
func WithMarkerName(name string) Option {
	return func(fs *FileSystem) { fs.marker = name }
}

// WithLogger attaches a logger. Multi-step emulated operations emit
// debug events through it. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(fs *FileSystem) { fs.log = log }
}

// New binds a FileSystem to its backing container, creating the
// container and applying the visibility policy when it does not exist
// yet. The binding is the only construction-time side effect; every
// later operation assumes the container is present.
func New(ctx context.Context, store ObjectStore, opts ...Option) (*FileSystem, error) {
	fs := &FileSystem{
		store:      store,
		marker:     DefaultMarkerName,
		visibility: Private,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	if fs.marker == "" {
		return nil, errors.New("marker name must not be empty")
	}
	if err := store.EnsureContainer(ctx, fs.visibility); err != nil {
		return nil, fmt.Errorf("bind container: %w", err)
	}
	return fs, nil
}

// key normalizes a caller-supplied virtual path into a store key.
func (fs *FileSystem) key(path string) (string, error) {
	return JoinKey(fs.root, path)
}

// rel converts a store key back into a virtual path.
func (fs *FileSystem) rel(key string) string {
	if fs.root == "" {
		return key
	}
	return strings.TrimPrefix(key, fs.root+"/")
}

func (fs *FileSystem) storeErr(op, key string, err error) error {
	return fmt.Errorf("%s %s: %w", op, key, err)
}

// joinPath joins two virtual path segments, collapsing an empty dir.
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// FileExists reports whether a file exists at path. A missing file is
// not an error; only path rejection or store failures are.
func (fs *FileSystem) FileExists(ctx context.Context, path string) (bool, error) {
	key, err := fs.key(path)
	if err != nil {
		return false, err
	}
	_, err = fs.store.Stat(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fs.storeErr("stat", key, err)
	}
	return true, nil
}

// GetFile returns a handle to the file at path. It fails with
// ErrFileNotFound when the underlying key is absent.
func (fs *FileSystem) GetFile(ctx context.Context, path string) (*File, error) {
	key, err := fs.key(path)
	if err != nil {
		return nil, err
	}
	info, err := fs.store.Stat(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return nil, &PathError{Path: path, Err: ErrFileNotFound}
	}
	if err != nil {
		return nil, fs.storeErr("stat", key, err)
	}
	return &File{fs: fs, path: path, info: *info}, nil
}

// CreateFile materializes an empty object at path and returns a handle
// positioned for write. It fails with ErrFileExists when the key is
// already present.
func (fs *FileSystem) CreateFile(ctx context.Context, path string) (*File, error) {
	key, err := fs.key(path)
	if err != nil {
		return nil, err
	}
	_, err = fs.store.Stat(ctx, key)
	if err == nil {
		return nil, &PathError{Path: path, Err: ErrFileExists}
	}
	if !errors.Is(err, ErrObjectNotFound) {
		return nil, fs.storeErr("stat", key, err)
	}
	// Touch: an empty upload forces the object into existence so the
	// file is observable before any content is written.
	if err := fs.store.Put(ctx, key, bytes.NewReader(nil)); err != nil {
		return nil, fs.storeErr("create", key, err)
	}
	return &File{fs: fs, path: path, info: ObjectInfo{Key: key}}, nil
}

// DeleteFile removes the file at path. It fails with ErrFileNotFound
// when the key is absent.
func (fs *FileSystem) DeleteFile(ctx context.Context, path string) error {
	key, err := fs.key(path)
	if err != nil {
		return err
	}
	_, err = fs.store.Stat(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return &PathError{Path: path, Err: ErrFileNotFound}
	}
	if err != nil {
		return fs.storeErr("stat", key, err)
	}
	if err := fs.store.Delete(ctx, key); err != nil {
		return fs.storeErr("delete", key, err)
	}
	return nil
}

// RenameFile moves the file at path to newPath as a copy-then-delete
// pair; the store has no native rename. The pair is not atomic: a
// failure between the two steps leaves both objects present, and the
// error surfaces so the caller can retry or clean up.
func (fs *FileSystem) RenameFile(ctx context.Context, path, newPath string) error {
	srcKey, err := fs.key(path)
	if err != nil {
		return err
	}
	dstKey, err := fs.key(newPath)
	if err != nil {
		return err
	}
	if _, err := fs.store.Stat(ctx, srcKey); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return &PathError{Path: path, Err: ErrFileNotFound}
		}
		return fs.storeErr("stat", srcKey, err)
	}
	_, err = fs.store.Stat(ctx, dstKey)
	if err == nil {
		return &PathError{Path: newPath, Err: ErrFileExists}
	}
	if !errors.Is(err, ErrObjectNotFound) {
		return fs.storeErr("stat", dstKey, err)
	}

	fs.log.Debug().Str("from", srcKey).Str("to", dstKey).Msg("renaming file")
	if err := fs.store.Copy(ctx, srcKey, dstKey); err != nil {
		return fs.storeErr("copy", srcKey, err)
	}
	if err := fs.store.Delete(ctx, srcKey); err != nil {
		return fs.storeErr("delete", srcKey, err)
	}
	return nil
}

// ListFiles enumerates the files directly under path, not descending
// into sub-folders. Folder markers are filtered out.
func (fs *FileSystem) ListFiles(ctx context.Context, path string) ([]*File, error) {
	key, err := fs.key(path)
	if err != nil {
		return nil, err
	}
	prefix := childPrefix(key)
	entries, err := fs.store.List(ctx, prefix)
	if err != nil {
		return nil, fs.storeErr("list", prefix, err)
	}

	var files []*File
	for _, e := range entries {
		if e.Kind != EntryObject {
			continue
		}
		if baseName(e.Object.Key) == fs.marker {
			continue
		}
		files = append(files, &File{fs: fs, path: fs.rel(e.Object.Key), info: *e.Object})
	}
	return files, nil
}

// ListFolders enumerates the immediate sub-folders of path. When the
// prefix holds no objects at all, the folder is created on the spot by
// writing its marker; listing a folder is also an assertion that it
// exists.
func (fs *FileSystem) ListFolders(ctx context.Context, path string) ([]*Folder, error) {
	key, err := fs.key(path)
	if err != nil {
		return nil, err
	}
	prefix := childPrefix(key)
	entries, err := fs.store.List(ctx, prefix)
	if err != nil {
		return nil, fs.storeErr("list", prefix, err)
	}

	if len(entries) == 0 {
		markerKey := prefix + fs.marker
		fs.log.Debug().Str("key", markerKey).Msg("creating folder marker on first listing")
		if err := fs.store.Put(ctx, markerKey, bytes.NewReader(nil)); err != nil {
			return nil, fs.storeErr("create marker", markerKey, err)
		}
		return nil, nil
	}

	var folders []*Folder
	for _, e := range entries {
		if e.Kind != EntryPrefix {
			continue
		}
		folders = append(folders, &Folder{fs: fs, path: fs.rel(strings.TrimSuffix(e.Prefix, "/"))})
	}
	return folders, nil
}

// CreateFolder reifies the folder at path by writing its hidden
// marker. It fails with ErrFolderExists when a marker or any content
// already signals existence.
func (fs *FileSystem) CreateFolder(ctx context.Context, path string) error {
	key, err := fs.key(path)
	if err != nil {
		return err
	}
	prefix := childPrefix(key)
	entries, err := fs.store.List(ctx, prefix)
	if err != nil {
		return fs.storeErr("list", prefix, err)
	}
	if len(entries) > 0 {
		return &PathError{Path: path, Err: ErrFolderExists}
	}
	markerKey := prefix + fs.marker
	if err := fs.store.Put(ctx, markerKey, bytes.NewReader(nil)); err != nil {
		return fs.storeErr("create marker", markerKey, err)
	}
	return nil
}

// DeleteFolder removes every object under path depth-first, markers
// included. It fails with ErrFolderNotFound when the prefix holds no
// objects. The traversal is sequential and not transactional: a
// failure mid-way leaves the remaining objects in place.
func (fs *FileSystem) DeleteFolder(ctx context.Context, path string) error {
	key, err := fs.key(path)
	if err != nil {
		return err
	}
	prefix := childPrefix(key)
	entries, err := fs.store.List(ctx, prefix)
	if err != nil {
		return fs.storeErr("list", prefix, err)
	}
	if len(entries) == 0 {
		return &PathError{Path: path, Err: ErrFolderNotFound}
	}

	fs.log.Debug().Str("prefix", prefix).Msg("deleting folder recursively")
	for _, e := range entries {
		switch e.Kind {
		case EntryObject:
			if err := fs.store.Delete(ctx, e.Object.Key); err != nil {
				return fs.storeErr("delete", e.Object.Key, err)
			}
		case EntryPrefix:
			sub := fs.rel(strings.TrimSuffix(e.Prefix, "/"))
			if err := fs.DeleteFolder(ctx, sub); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenameFolder re-keys every object under path into newPath, recursing
// into sub-folders. Files move through RenameFile; markers move with a
// direct copy+delete since the destination marker may legitimately
// already exist while the tree is being rebuilt. Not atomic: a crash
// mid-way leaves a half-renamed tree containing both copies.
func (fs *FileSystem) RenameFolder(ctx context.Context, path, newPath string) error {
	srcKey, err := fs.key(path)
	if err != nil {
		return err
	}
	dstKey, err := fs.key(newPath)
	if err != nil {
		return err
	}
	srcPrefix := childPrefix(srcKey)
	entries, err := fs.store.List(ctx, srcPrefix)
	if err != nil {
		return fs.storeErr("list", srcPrefix, err)
	}
	if len(entries) == 0 {
		return &PathError{Path: path, Err: ErrFolderNotFound}
	}

	fs.log.Debug().Str("from", srcPrefix).Str("to", childPrefix(dstKey)).Msg("renaming folder recursively")
	for _, e := range entries {
		switch e.Kind {
		case EntryObject:
			name := baseName(e.Object.Key)
			if name == fs.marker {
				newMarker := childPrefix(dstKey) + fs.marker
				if err := fs.store.Copy(ctx, e.Object.Key, newMarker); err != nil {
					return fs.storeErr("copy", e.Object.Key, err)
				}
				if err := fs.store.Delete(ctx, e.Object.Key); err != nil {
					return fs.storeErr("delete", e.Object.Key, err)
				}
				continue
			}
			if err := fs.RenameFile(ctx, joinPath(path, name), joinPath(newPath, name)); err != nil {
				return err
			}
		case EntryPrefix:
			name := baseName(e.Prefix)
			if err := fs.RenameFolder(ctx, joinPath(path, name), joinPath(newPath, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// FolderSize returns the total byte size of every object transitively
// under path. Marker objects are counted; they are zero bytes. The sum
// is recomputed on every call, O(total objects).
func (fs *FileSystem) FolderSize(ctx context.Context, path string) (int64, error) {
	key, err := fs.key(path)
	if err != nil {
		return 0, err
	}
	prefix := childPrefix(key)
	entries, err := fs.store.List(ctx, prefix)
	if err != nil {
		return 0, fs.storeErr("list", prefix, err)
	}

	var total int64
	for _, e := range entries {
		switch e.Kind {
		case EntryObject:
			total += e.Object.Size
		case EntryPrefix:
			sub, err := fs.FolderSize(ctx, fs.rel(strings.TrimSuffix(e.Prefix, "/")))
			if err != nil {
				return 0, err
			}
			total += sub
		}
	}
	return total, nil
}

// PublicURL returns the absolute address of the file at path. It fails
// with ErrFileNotFound when the key is absent.
func (fs *FileSystem) PublicURL(ctx context.Context, path string) (string, error) {
	key, err := fs.key(path)
	if err != nil {
		return "", err
	}
	if _, err := fs.store.Stat(ctx, key); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return "", &PathError{Path: path, Err: ErrFileNotFound}
		}
		return "", fs.storeErr("stat", key, err)
	}
	return fs.store.PublicURL(key), nil
}
