// Package ldac loads topic models written by lda-c: a vocabulary file with
// one word per line and a beta file with one row of log probabilities per
// topic.
package ldac

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.TopicModelLoader = (*Loader)(nil)

// maxLineSize bounds a single beta row; rows hold one value per vocabulary word.
const maxLineSize = 64 << 20

// Loader reads lda-c vocabulary and beta files.
type Loader struct{}

// New creates a new loader.
func New() *Loader {
	return &Loader{}
}

// Load reads both files and validates that every beta row has exactly one
// value per vocabulary word.
func (l *Loader) Load(ctx context.Context, vocabPath, betaPath string) (*domain.TopicModel, error) {
	vocab, err := ReadVocab(vocabPath)
	if err != nil {
		return nil, err
	}

	rows, err := ReadBeta(ctx, betaPath, len(vocab))
	if err != nil {
		return nil, err
	}

	data := make([]float64, 0, len(rows)*len(vocab))
	for _, row := range rows {
		data = append(data, row...)
	}
	return domain.NewTopicModel(vocab, mat.NewDense(len(rows), len(vocab), data))
}

// ReadVocab reads one word per line; the line number is the word id.
func ReadVocab(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTopicModelUnreadable, err)
	}
	defer f.Close()

	var vocab []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		vocab = append(vocab, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrTopicModelUnreadable, path, err)
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("%w: vocabulary %s is empty", domain.ErrInvalidInput, path)
	}
	return vocab, nil
}

// ReadBeta reads whitespace-separated rows of floats. Blank lines are
// ignored; every other row must hold exactly width values.
func ReadBeta(ctx context.Context, path string, width int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTopicModelUnreadable, err)
	}
	defer f.Close()

	var rows [][]float64
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != width {
			return nil, fmt.Errorf("%w: %s line %d has %d values, vocabulary has %d words",
				domain.ErrDimensionMismatch, path, line, len(fields), width)
		}

		row := make([]float64, width)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d column %d: %w",
					domain.ErrInvalidInput, path, line, i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrTopicModelUnreadable, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: beta file %s has no topics", domain.ErrInvalidInput, path)
	}
	return rows, nil
}
