// Package asset defines the identifiers and values exchanged with the host
// build pipeline.
package asset

import (
	"fmt"
	"strings"
)

// ID names one build artifact: the owning package and the artifact path
// inside that package. Paths are forward-slash separated regardless of host
// platform. Two IDs refer to the same artifact exactly when they are equal.
type ID struct {
	Package string
	Path    string
}

// NewID builds an ID from a package name and a slash-separated path.
func NewID(pkg, path string) ID {
	return ID{Package: pkg, Path: path}
}

// ParseID parses the pipeline notation "package|path".
func ParseID(s string) (ID, error) {
	i := strings.IndexByte(s, '|')
	if i < 0 {
		return ID{}, fmt.Errorf("asset: id %q is missing the package separator", s)
	}
	id := ID{Package: s[:i], Path: s[i+1:]}
	if id.Package == "" {
		return ID{}, fmt.Errorf("asset: id %q has an empty package", s)
	}
	if id.Path == "" {
		return ID{}, fmt.Errorf("asset: id %q has an empty path", s)
	}
	if strings.Contains(id.Path, "|") {
		return ID{}, fmt.Errorf("asset: id %q has more than one separator", s)
	}
	return id, nil
}

// String renders the pipeline notation "package|path".
func (id ID) String() string {
	return id.Package + "|" + id.Path
}

// IsZero reports whether the ID is the zero value.
func (id ID) IsZero() bool {
	return id.Package == "" && id.Path == ""
}

// Artifact is one named unit of build input or output with textual content.
type Artifact struct {
	ID   ID
	Text string
}
