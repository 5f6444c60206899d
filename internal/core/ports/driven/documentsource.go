package driven

import (
	"context"
	"time"
)

// DocumentSource enumerates documents and reads their words.
type DocumentSource interface {
	// ListDir returns the absolute paths of all .txt files directly in dir.
	ListDir(ctx context.Context, dir string) ([]string, error)

	// ListFiles returns the absolute paths of the .txt entries in paths.
	ListFiles(ctx context.Context, paths []string) ([]string, error)

	// Stat returns size and modification time, used for cache keys.
	Stat(ctx context.Context, path string) (size int64, modTime time.Time, err error)

	// ReadWords returns the whitespace-separated tokens of a document.
	ReadWords(ctx context.Context, path string) ([]string, error)
}
