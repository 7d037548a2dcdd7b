package blobfs

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"
)

// File is a handle to a stored file. It is an immutable view over a
// live store object, not a copy: Size and ModTime reflect the object
// at the time the handle was obtained.
type File struct {
	fs   *FileSystem
	path string
	info ObjectInfo
}

// Name returns the last segment of the file path.
func (f *File) Name() string {
	return baseName(f.path)
}

// Path returns the file's virtual path relative to the filesystem root.
func (f *File) Path() string {
	return f.path
}

// Size returns the file size in bytes.
func (f *File) Size() int64 {
	return f.info.Size
}

// ModTime returns the last-modified timestamp reported by the store.
func (f *File) ModTime() time.Time {
	return f.info.LastModified
}

// Ext returns the file extension derived from the name, without the
// leading dot. Empty when the name has no extension.
func (f *File) Ext() string {
	name := f.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i+1:]
	}
	return ""
}

// Open returns a stream positioned at the start of the file content.
// The caller must close it.
func (f *File) Open(ctx context.Context) (io.ReadCloser, error) {
	r, err := f.fs.store.Get(ctx, f.info.Key)
	if err != nil {
		return nil, f.fs.storeErr("open", f.info.Key, err)
	}
	return r, nil
}

// Writer returns a stream that replaces the file content when closed.
// Nothing is written to the store until Close; closing with no writes
// materializes an empty object.
func (f *File) Writer(ctx context.Context) (io.WriteCloser, error) {
	return &blobWriter{ctx: ctx, fs: f.fs, key: f.info.Key}, nil
}

// blobWriter buffers writes and uploads the whole content on Close.
// Object stores have no partial-write primitive, so the upload is the
// single store call and the buffer is released with the writer.
type blobWriter struct {
	ctx    context.Context
	fs     *FileSystem
	key    string
	buf    bytes.Buffer
	closed bool
}

func (w *blobWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *blobWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.fs.store.Put(w.ctx, w.key, bytes.NewReader(w.buf.Bytes())); err != nil {
		return w.fs.storeErr("write", w.key, err)
	}
	return nil
}
