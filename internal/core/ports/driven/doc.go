// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TopicModelLoader: Reads a vocabulary and beta file into a TopicModel
//   - DocumentSource: Enumerates .txt documents and reads their words
//   - Clusterer: Fits raw labels over a distance matrix (DBSCAN, k-means)
//   - ConfigLoader: Reads run configs and cluster manifests
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - CentroidCache: Skips re-reading unchanged documents
//   - ClusterExporter: Semeval result export
//   - ChartRenderer: Visualization of cluster centroids
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
