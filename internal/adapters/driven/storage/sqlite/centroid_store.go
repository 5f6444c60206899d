package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CentroidCache = (*Store)(nil)

// Get returns the centroid stored for key. A row whose file size or
// modification time differs from key is stale and reported as a miss.
func (s *Store) Get(ctx context.Context, key driven.CentroidKey) (domain.Centroid, bool, error) {
	var (
		size    int64
		modTime int64
		dims    int
		blob    []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT size, mod_time, dims, vector FROM centroids
		WHERE path = ? AND model = ? AND flavor = ?
	`, key.Path, key.Model, string(key.Flavor)).Scan(&size, &modTime, &dims, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UndefinedCentroid(), false, nil
	}
	if err != nil {
		return domain.UndefinedCentroid(), false, fmt.Errorf("reading centroid: %w", err)
	}

	if size != key.Size || modTime != key.ModTime.UnixNano() {
		return domain.UndefinedCentroid(), false, nil
	}

	values := bytesToFloat64Slice(blob)
	if len(values) != dims || dims == 0 {
		return domain.UndefinedCentroid(), false, fmt.Errorf("%w: cached centroid for %s has %d values, want %d",
			domain.ErrDimensionMismatch, key.Path, len(values), dims)
	}
	return domain.DefinedCentroid(values), true, nil
}

// Put stores a defined centroid, replacing any earlier entry for the same
// path, model and flavor.
func (s *Store) Put(ctx context.Context, key driven.CentroidKey, centroid domain.Centroid) error {
	values, ok := centroid.Vector()
	if !ok {
		return fmt.Errorf("%w: cannot cache an undefined centroid for %s", domain.ErrInvalidInput, key.Path)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO centroids (path, model, flavor, size, mod_time, dims, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path, model, flavor) DO UPDATE SET
			size = excluded.size,
			mod_time = excluded.mod_time,
			dims = excluded.dims,
			vector = excluded.vector,
			updated_at = CURRENT_TIMESTAMP
	`, key.Path, key.Model, string(key.Flavor), key.Size, key.ModTime.UnixNano(),
		len(values), float64SliceToBytes(values))
	if err != nil {
		return fmt.Errorf("saving centroid: %w", err)
	}
	return nil
}

// Helper functions

func float64SliceToBytes(floats []float64) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*8)
	for i, f := range floats {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func bytesToFloat64Slice(data []byte) []float64 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float64, len(data)/8)
	for i := range floats {
		floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return floats
}
