package domain

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ComputeCentroid aggregates the topic vectors of the known words in words.
// Unknown words contribute nothing. The centroid is undefined, with an error
// explaining why, when no word is known or when the avg flavor ends up with a
// constant vector.
func ComputeCentroid(tm *TopicModel, words []string, flavor CentroidFlavor) (Centroid, error) {
	ids := make([]int, 0, len(words))
	for _, w := range words {
		if id, ok := tm.WordID(w); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return UndefinedCentroid(), ErrNoKnownWords
	}

	sum := make([]float64, tm.NumTopics())
	switch flavor {
	case FlavorAvg, "":
		for _, id := range ids {
			floats.Add(sum, tm.VectorForID(id))
		}
		floats.Scale(1/float64(len(ids)), sum)
		normalized, err := MinMaxNormalize(sum)
		if err != nil {
			return UndefinedCentroid(), err
		}
		return Centroid{values: normalized}, nil

	case FlavorExp:
		for _, id := range ids {
			// A constant word vector normalises to zeros and adds nothing.
			normalized, err := MinMaxNormalize(tm.VectorForID(id))
			if err != nil && !errors.Is(err, ErrDegenerateVector) {
				return UndefinedCentroid(), err
			}
			floats.Add(sum, normalized)
		}
		floats.Scale(1/float64(len(ids)), sum)
		return Centroid{values: sum}, nil

	default:
		return UndefinedCentroid(), fmt.Errorf("%w: centroid computation %q", ErrInvalidInput, flavor)
	}
}
