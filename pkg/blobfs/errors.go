package blobfs

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrInvalidPath indicates a caller-supplied path was absolute or
	// carried a URL scheme where a relative path is required
	ErrInvalidPath = errors.New("invalid path")

	// ErrFileNotFound indicates a file was not found
	ErrFileNotFound = errors.New("file not found")

	// ErrFileExists indicates a file creation target already exists
	ErrFileExists = errors.New("file already exists")

	// ErrFolderNotFound indicates a folder was not found
	ErrFolderNotFound = errors.New("folder not found")

	// ErrFolderExists indicates a folder creation target already exists
	ErrFolderExists = errors.New("folder already exists")

	// ErrObjectNotFound indicates an object was not found in the
	// backing store. Drivers return it from Stat, Get, Copy and Delete;
	// the filesystem layer translates it into ErrFileNotFound or
	// ErrFolderNotFound as appropriate.
	ErrObjectNotFound = errors.New("object not found")
)

// PathError records a path that failed normalization.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to storage operations
type StorageError struct {
	Store string
	Key   string
	Op    string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on store %s: %v", e.Op, e.Key, e.Store, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
