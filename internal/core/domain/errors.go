package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Topic Model Errors.

	// ErrTopicModelUnreadable indicates a vocabulary or beta file is missing or unreadable.
	ErrTopicModelUnreadable = errors.New("topic model file unreadable")

	// ErrDimensionMismatch indicates a beta row disagrees with the vocabulary size
	// or with the other rows.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNoKnownWords indicates a document without a single vocabulary word.
	ErrNoKnownWords = errors.New("no known words")

	// ErrDegenerateVector indicates a constant vector that cannot be min-max normalised.
	ErrDegenerateVector = errors.New("degenerate vector")

	// Clustering Errors.

	// ErrEmptyCollection indicates there are no documents with a defined centroid.
	ErrEmptyCollection = errors.New("empty document collection")

	// ErrUnknownAlgorithm indicates a clustering algorithm outside the supported set.
	ErrUnknownAlgorithm = errors.New("unknown clustering algorithm")

	// ErrInvalidParams indicates clustering parameters the algorithm cannot use.
	ErrInvalidParams = errors.New("invalid clustering parameters")

	// ErrLabelCollision indicates two raw labels produced the same cluster name.
	ErrLabelCollision = errors.New("cluster label collision")

	// ErrNoClusters indicates a run produced or loaded zero clusters.
	ErrNoClusters = errors.New("no clusters")

	// Export Errors.

	// ErrInvalidPOS indicates a semeval part-of-speech tag other than "v" or "n".
	ErrInvalidPOS = errors.New("invalid pos tag")
)
