package blobfs

import (
	"context"
	"time"
)

// Folder is a handle to an emulated folder. A folder exists when at
// least one object lives under its prefix; an otherwise-empty folder
// is kept alive by its hidden marker object.
type Folder struct {
	fs   *FileSystem
	path string
}

// Name returns the last segment of the folder path.
func (f *Folder) Name() string {
	return baseName(f.path)
}

// Path returns the folder's virtual path relative to the filesystem root.
func (f *Folder) Path() string {
	return f.path
}

// Parent returns the containing folder. It fails with ErrFolderNotFound
// when called on the root.
func (f *Folder) Parent() (*Folder, error) {
	parent, ok := parentPath(f.path)
	if !ok {
		return nil, &PathError{Path: f.path, Err: ErrFolderNotFound}
	}
	return &Folder{fs: f.fs, path: parent}, nil
}

// Size returns the total byte size of every file transitively under
// the folder. It is recomputed on every call by walking the store.
func (f *Folder) Size(ctx context.Context) (int64, error) {
	return f.fs.FolderSize(ctx, f.path)
}

// ModTime returns the zero time: object stores track no modification
// timestamp for a prefix.
func (f *Folder) ModTime() time.Time {
	return time.Time{}
}
