// Package blobfs projects a hierarchical file/folder namespace onto a
// flat, prefix-keyed object store.
//
// Object stores have no native directories, renames, or directory
// metadata. This package synthesizes all three: folders are derived
// from common key prefixes at list time and made durable with a hidden
// zero-byte marker object, renames are copy-then-delete pairs, and
// folder sizes are recursive sums over the contained objects.
//
// The hierarchy logic lives entirely in this package; backing stores
// implement the flat ObjectStore interface. Drivers for S3-compatible
// services (aws-sdk-go-v2), MinIO (minio-go), and an in-memory store
// are provided under subpackages of storage/.
//
// # Consistency
//
// The package holds no locks and caches nothing: every call re-queries
// the backing store, so read-after-write behavior is exactly as strong
// as the store provides. Multi-step emulated operations (folder rename,
// recursive delete) are sequential and not transactional; a failure
// mid-traversal leaves a partially applied result that the caller is
// expected to detect and retry.
package blobfs
