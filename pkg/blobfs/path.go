package blobfs

import (
	"fmt"
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// JoinKey composes a root prefix and a caller-supplied relative path
// into a store key. It rejects absolute paths and URL-qualified paths
// with ErrInvalidPath. Pure function, no I/O.
func JoinKey(root, path string) (string, error) {
	if strings.HasPrefix(path, "/") {
		return "", &PathError{Path: path, Err: fmt.Errorf("%w: must be relative", ErrInvalidPath)}
	}
	if schemePattern.MatchString(path) {
		return "", &PathError{Path: path, Err: fmt.Errorf("%w: must not carry a URL scheme", ErrInvalidPath)}
	}

	path = strings.TrimSuffix(path, "/")
	root = strings.Trim(root, "/")

	switch {
	case root == "":
		return path, nil
	case path == "":
		return root, nil
	default:
		return root + "/" + path, nil
	}
}

// childPrefix turns a normalized key into the listing prefix for its
// children. The empty key (container root with no configured root
// prefix) maps to the empty prefix.
func childPrefix(key string) string {
	if key == "" {
		return ""
	}
	return key + "/"
}

// baseName returns the last segment of a slash-separated key or path.
func baseName(p string) string {
	p = strings.TrimSuffix(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// parentPath returns the path with its last segment trimmed, and false
// when there is no parent (the path is the root).
func parentPath(p string) (string, bool) {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "", false
	}
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i], true
	}
	return "", true
}
