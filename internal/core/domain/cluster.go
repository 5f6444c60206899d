package domain

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Algorithm names a supported clustering algorithm.
type Algorithm string

// Supported clustering algorithms.
const (
	// AlgorithmDBSCAN is density-based clustering with a noise label.
	AlgorithmDBSCAN Algorithm = "dbscan"

	// AlgorithmKMeans is centroid-based partitioning into k clusters.
	AlgorithmKMeans Algorithm = "kmeans"
)

// Algorithms lists the supported algorithms.
var Algorithms = []Algorithm{AlgorithmDBSCAN, AlgorithmKMeans}

// ParseAlgorithm validates an algorithm name. An empty name selects DBSCAN.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if a == "" {
		return AlgorithmDBSCAN, nil
	}
	if !slices.Contains(Algorithms, a) {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
	return a, nil
}

// String returns the string representation.
func (a Algorithm) String() string {
	return string(a)
}

// ClusterParams are the named, algorithm-specific options passed verbatim
// to a clustering algorithm.
type ClusterParams map[string]any

// Float returns the numeric parameter key, or def when it is absent.
func (p ClusterParams) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParams, key, v)
	}
}

// Int returns the integral parameter key, or def when it is absent.
func (p ClusterParams) Int(key string, def int) (int, error) {
	f, err := p.Float(key, float64(def))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %g", ErrInvalidParams, key, f)
	}
	return int(f), nil
}

// Unknown returns the parameter names not in allowed, sorted.
func (p ClusterParams) Unknown(allowed ...string) []string {
	var unknown []string
	for _, key := range slices.Sorted(maps.Keys(p)) {
		if !slices.Contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// DBSCANParams are the two density parameters of DBSCAN.
type DBSCANParams struct {
	// Eps is the neighbourhood radius.
	Eps float64

	// MinSamples is the minimum neighbourhood size of a core point.
	MinSamples float64
}

// ClusterParams converts to the generic parameter map.
func (p DBSCANParams) ClusterParams() ClusterParams {
	return ClusterParams{"eps": p.Eps, "min_samples": p.MinSamples}
}

// Cluster is one named group of document identities.
type Cluster struct {
	// Number is the 1-based external cluster number.
	Number int

	// Name combines the number and member count, e.g. "cluster1 #12".
	Name string

	// Members are document identities in matrix row order.
	Members []string
}

// ClusterName builds the display name of a cluster.
func ClusterName(number, count int) string {
	return fmt.Sprintf("cluster%d #%d", number, count)
}

// Clustering is the named result of one clustering pass.
type Clustering struct {
	// Clusters are ordered by cluster number.
	Clusters []Cluster

	// Noise lists the identities the algorithm left unassigned.
	Noise []string
}

// Len returns the number of clusters.
func (c *Clustering) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Clusters)
}

// Map returns cluster name to members.
func (c *Clustering) Map() map[string][]string {
	m := make(map[string][]string, len(c.Clusters))
	for _, cl := range c.Clusters {
		m[cl.Name] = cl.Members
	}
	return m
}

// Members returns every member identity of every cluster, in cluster order.
func (c *Clustering) Members() []string {
	var ids []string
	for _, cl := range c.Clusters {
		ids = append(ids, cl.Members...)
	}
	return ids
}

// ClusterCentroids maps cluster name to its aggregated centroid.
type ClusterCentroids map[string][]float64

// Names returns the cluster names in ascending order.
func (c ClusterCentroids) Names() []string {
	return slices.Sorted(maps.Keys(c))
}
