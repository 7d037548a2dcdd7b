package blobfs

import "time"

// Visibility is the access policy applied to the backing container
// when it is created.
type Visibility string

const (
	// Private containers allow no anonymous access.
	Private Visibility = "private"

	// PublicRead containers allow anonymous read of every object.
	PublicRead Visibility = "public-read"
)

// ObjectInfo contains metadata about an object in the backing store.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// EntryKind discriminates the two kinds of entries a delimiter listing
// can produce.
type EntryKind int

const (
	// EntryObject is a concrete object directly under the listed prefix.
	EntryObject EntryKind = iota

	// EntryPrefix is a common sub-prefix, i.e. an emulated sub-folder.
	EntryPrefix
)

// Entry is one result of a delimiter listing: either an object or a
// common sub-prefix. Exactly one of Object and Prefix is set,
// according to Kind.
type Entry struct {
	Kind   EntryKind
	Object *ObjectInfo // set when Kind == EntryObject
	Prefix string      // set when Kind == EntryPrefix; ends with "/"
}
