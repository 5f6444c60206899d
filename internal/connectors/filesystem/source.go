// Package filesystem reads plain-text documents from the local disk.
package filesystem

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// DocumentExt is the extension of document files.
const DocumentExt = ".txt"

// Source enumerates .txt documents and tokenizes them on whitespace.
type Source struct{}

// New creates a filesystem document source.
func New() *Source {
	return &Source{}
}

// ListDir returns the absolute paths of the .txt files directly in dir,
// sorted by name. Sub-directories are not descended into.
func (s *Source) ListDir(_ context.Context, dir string) ([]string, error) {
	abs, err := ResolvePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("reading document directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isDocument(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(abs, entry.Name()))
	}
	return paths, nil
}

// ListFiles resolves the .txt entries of paths to absolute paths, dropping
// other files and duplicates while keeping order.
func (s *Source) ListFiles(_ context.Context, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !isDocument(filepath.Base(p)) {
			continue
		}
		abs, err := ResolvePath(p)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, abs) {
			out = append(out, abs)
		}
	}
	return out, nil
}

// Stat returns the size and modification time of path.
func (s *Source) Stat(_ context.Context, path string) (int64, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	return info.Size(), info.ModTime(), nil
}

// ReadWords returns the whitespace-separated tokens of path.
func (s *Source) ReadWords(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
		if len(words)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return words, nil
}

func isDocument(name string) bool {
	return strings.HasSuffix(name, DocumentExt)
}
