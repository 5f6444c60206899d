package filesystem

import (
	"path/filepath"
	"strings"
)

// ResolvePath converts a document reference to an absolute local path.
// Handles file:// URIs and bare paths; relative paths resolve against the
// working directory.
func ResolvePath(uri string) (string, error) {
	path := strings.TrimPrefix(uri, "file://")
	return filepath.Abs(path)
}
