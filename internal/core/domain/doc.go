// Package domain defines the core entities for Thekla.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - TopicModel: A vocabulary plus a topic-by-word matrix
//   - Document: A text file represented by its topic centroid
//   - Collection: Documents keyed by identity, ready for clustering
//   - Clustering: Named clusters produced from raw algorithm labels
//   - RunConfig: The settings of one clustering run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library and gonum numeric packages
//   - Cannot Import: Any internal/ package
package domain
