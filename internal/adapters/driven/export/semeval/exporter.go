// Package semeval writes cluster assignments in the answer-key format of
// the SemEval-2010 word sense induction task: one line per document,
// "word.pos word.pos.index word.pos.cluster".
package semeval

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.ClusterExporter = (*Exporter)(nil)

// Exporter appends semeval lines to a result file.
type Exporter struct{}

// New creates a semeval exporter.
func New() *Exporter {
	return &Exporter{}
}

// Export appends a line for every assigned document and resets it to
// domain.Unassigned, so a document is exported at most once. Documents whose
// file names do not follow the word_index.txt convention are skipped and
// reported in the joined error as domain.ErrInvalidInput.
func (e *Exporter) Export(ctx context.Context, path string, pos domain.POS, docs []*domain.Document) (int, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening semeval file: %w", err)
	}
	defer f.Close()

	n, err := WriteLines(ctx, f, pos, docs)
	if cerr := f.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("closing semeval file: %w", cerr))
	}
	return n, err
}

// WriteLines writes the lines of the assigned documents to w. Labels are
// reset only once every buffered line has been flushed.
func WriteLines(ctx context.Context, w io.Writer, pos domain.POS, docs []*domain.Document) (int, error) {
	bw := bufio.NewWriter(w)
	var exported []*domain.Document
	var errs []error

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !doc.Assigned() {
			continue
		}

		word, index, err := ParseName(doc.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if _, err := fmt.Fprint(bw, Line(word, index, pos, doc.ClusterLabel)); err != nil {
			return 0, errors.Join(append(errs, fmt.Errorf("writing semeval file: %w", err))...)
		}
		exported = append(exported, doc)
	}

	if err := bw.Flush(); err != nil {
		return 0, errors.Join(append(errs, fmt.Errorf("writing semeval file: %w", err))...)
	}
	for _, doc := range exported {
		doc.ClusterLabel = domain.Unassigned
	}
	return len(exported), errors.Join(errs...)
}

// Line formats one answer-key entry, newline included.
func Line(word, index string, pos domain.POS, label int) string {
	return fmt.Sprintf("%[1]s.%[2]s %[1]s.%[2]s.%[3]s %[1]s.%[2]s.%[4]d\n", word, pos, index, label)
}

// ParseName splits a document path like /data/deploy/deploy_3.txt into
// the target word "deploy" and instance index "3".
func ParseName(path string) (word, index string, err error) {
	base := filepath.Base(path)
	parts := strings.Split(base, "_")
	if len(parts) < 2 || parts[0] == "" {
		return "", "", fmt.Errorf("%w: %s is not named word_index.txt", domain.ErrInvalidInput, base)
	}
	index, _, _ = strings.Cut(parts[1], ".")
	if index == "" {
		return "", "", fmt.Errorf("%w: %s has no instance index", domain.ErrInvalidInput, base)
	}
	return parts[0], index, nil
}
