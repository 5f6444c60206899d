package services

import (
	"context"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
	"github.com/custodia-labs/thekla/internal/core/ports/driving"
	"github.com/custodia-labs/thekla/internal/logger"
)

// Ensure ClusteringService implements the interface.
var _ driving.ClusteringService = (*ClusteringService)(nil)

// stage is a step of one clustering pass. A failure at any stage aborts the
// pass; no partial clustering is returned. Computing distances over a built
// matrix cannot fail, so stageDistanceComputed never appears in an error.
type stage int

const (
	stageMatrixBuilt stage = iota
	stageDistanceComputed
	stageParametersResolved
	stageLabelsAssigned
	stageClustersNamed
)

func (s stage) String() string {
	switch s {
	case stageMatrixBuilt:
		return "build centroid matrix"
	case stageDistanceComputed:
		return "compute distances"
	case stageParametersResolved:
		return "resolve parameters"
	case stageLabelsAssigned:
		return "assign labels"
	case stageClustersNamed:
		return "name clusters"
	default:
		return "unknown stage"
	}
}

// pass carries the data shared by the stages of one clustering attempt.
// The distance matrix is computed once and used by inference and fitting.
type pass struct {
	coll      *domain.Collection
	matrix    *mat.Dense
	ids       []string
	distances *mat.SymDense
	params    domain.ClusterParams
	labels    []int
}

// ClusteringService groups documents by the distance of their centroids.
type ClusteringService struct {
	clusterers map[domain.Algorithm]driven.Clusterer
	log        *logger.Logger
}

// NewClusteringService creates a clustering service over the given algorithms.
func NewClusteringService(log *logger.Logger, clusterers ...driven.Clusterer) *ClusteringService {
	s := &ClusteringService{
		clusterers: make(map[domain.Algorithm]driven.Clusterer, len(clusterers)),
		log:        log,
	}
	for _, c := range clusterers {
		s.clusterers[c.Algorithm()] = c
	}
	return s
}

// Cluster runs algorithm with explicit params over the collection.
func (s *ClusteringService) Cluster(
	ctx context.Context,
	coll *domain.Collection,
	algorithm domain.Algorithm,
	params domain.ClusterParams,
) (*domain.Clustering, error) {
	clusterer, err := s.clusterer(algorithm)
	if err != nil {
		return nil, err
	}

	p, err := s.prepare(coll)
	if err != nil {
		return nil, err
	}
	p.params = params
	s.log.Info("Cluster algorithm is %s; options are %v", algorithm, params)

	return s.finish(ctx, p, clusterer)
}

// ClusterInferred runs DBSCAN with eps and min_samples inferred from the
// collection's pairwise distances.
func (s *ClusteringService) ClusterInferred(
	ctx context.Context,
	coll *domain.Collection,
	percent float64,
) (*domain.Clustering, error) {
	clusterer, err := s.clusterer(domain.AlgorithmDBSCAN)
	if err != nil {
		return nil, err
	}

	p, err := s.prepare(coll)
	if err != nil {
		return nil, err
	}

	inferred, err := InferDBSCANParams(p.distances, percent)
	if err != nil {
		return nil, stageError(stageParametersResolved, err)
	}
	p.params = inferred.ClusterParams()
	s.log.Info("Cluster algorithm is %s; options estimation is %v", domain.AlgorithmDBSCAN, p.params)

	return s.finish(ctx, p, clusterer)
}

// Centroids aggregates the mean centroid of every cluster. Members missing
// from the collection are skipped with a warning; a cluster without any
// known member is left out.
func (s *ClusteringService) Centroids(
	_ context.Context,
	coll *domain.Collection,
	clustering *domain.Clustering,
) (domain.ClusterCentroids, error) {
	s.log.Info("computing cluster centroids")
	centroids := make(domain.ClusterCentroids, clustering.Len())
	for _, cl := range clustering.Clusters {
		centroid, missing, err := coll.ClusterCentroid(cl.Members)
		for _, id := range missing {
			s.log.Warn("centroid missing for document %q", id)
		}
		if err != nil {
			s.log.Warn("skipping %s: %v", cl.Name, err)
			continue
		}
		centroids[cl.Name] = centroid
	}
	if len(centroids) == 0 {
		return nil, fmt.Errorf("%w: no cluster has a member in the collection", domain.ErrNoClusters)
	}
	return centroids, nil
}

func (s *ClusteringService) clusterer(algorithm domain.Algorithm) (driven.Clusterer, error) {
	c, ok := s.clusterers[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", domain.ErrUnknownAlgorithm, algorithm, s.supported())
	}
	return c, nil
}

func (s *ClusteringService) supported() []domain.Algorithm {
	algs := make([]domain.Algorithm, 0, len(s.clusterers))
	for a := range s.clusterers {
		algs = append(algs, a)
	}
	slices.Sort(algs)
	return algs
}

// prepare runs the matrix and distance stages.
func (s *ClusteringService) prepare(coll *domain.Collection) (*pass, error) {
	s.log.Section("Clustering")

	matrix, ids, err := coll.CentroidMatrix()
	if err != nil {
		return nil, stageError(stageMatrixBuilt, err)
	}
	s.log.Debug("centroid matrix: %d documents x %d topics", len(ids), coll.NumTopics())

	distances := DistanceMatrix(matrix)
	s.log.Debug("distance matrix: %d x %d", len(ids), len(ids))

	return &pass{
		coll:      coll,
		matrix:    matrix,
		ids:       ids,
		distances: distances,
	}, nil
}

// finish runs the labeling and naming stages.
func (s *ClusteringService) finish(ctx context.Context, p *pass, clusterer driven.Clusterer) (*domain.Clustering, error) {
	labels, err := clusterer.Fit(ctx, p.distances, p.params)
	if err != nil {
		return nil, stageError(stageLabelsAssigned, err)
	}
	if len(labels) != len(p.ids) {
		return nil, stageError(stageLabelsAssigned, fmt.Errorf("%w: %d labels for %d documents",
			domain.ErrDimensionMismatch, len(labels), len(p.ids)))
	}
	p.labels = labels

	clustering, err := NameClusters(p.coll, p.ids, p.labels)
	if err != nil {
		return nil, stageError(stageClustersNamed, err)
	}
	if len(clustering.Noise) > 0 {
		s.log.Info("Could not cluster %d documents", len(clustering.Noise))
	}
	s.log.Info("found %d clusters over %d documents", clustering.Len(), len(p.ids))
	return clustering, nil
}

// NameClusters groups row identities by raw label and writes the 1-based
// cluster number (raw label + 1) onto every member document. Rows labelled
// domain.Unassigned become noise and keep ClusterLabel -1. Labels are
// validated before any document is modified.
func NameClusters(coll *domain.Collection, ids []string, labels []int) (*domain.Clustering, error) {
	if len(ids) != len(labels) {
		return nil, fmt.Errorf("%w: %d labels for %d documents", domain.ErrDimensionMismatch, len(labels), len(ids))
	}

	groups := make(map[int][]string)
	for row, label := range labels {
		if label < domain.Unassigned {
			return nil, fmt.Errorf("%w: raw label %d maps to reserved cluster number %d",
				domain.ErrLabelCollision, label, label+1)
		}
		if _, ok := coll.Get(ids[row]); !ok {
			return nil, fmt.Errorf("%w: row %d document %q", domain.ErrNotFound, row, ids[row])
		}
		groups[label] = append(groups[label], ids[row])
	}

	keys := make([]int, 0, len(groups))
	for label := range groups {
		keys = append(keys, label)
	}
	slices.Sort(keys)

	res := &domain.Clustering{}
	names := make(map[string]int, len(keys))
	for _, label := range keys {
		members := groups[label]
		if label == domain.Unassigned {
			res.Noise = members
			continue
		}
		number := label + 1
		name := domain.ClusterName(number, len(members))
		if prev, dup := names[name]; dup {
			return nil, fmt.Errorf("%w: labels %d and %d both named %q", domain.ErrLabelCollision, prev, label, name)
		}
		names[name] = label
		res.Clusters = append(res.Clusters, domain.Cluster{Number: number, Name: name, Members: members})
	}

	for _, cl := range res.Clusters {
		for _, id := range cl.Members {
			doc, _ := coll.Get(id)
			doc.ClusterLabel = cl.Number
		}
	}
	for _, id := range res.Noise {
		doc, _ := coll.Get(id)
		doc.ClusterLabel = domain.Unassigned
	}
	return res, nil
}

func stageError(s stage, err error) error {
	return fmt.Errorf("clustering: %s: %w", s, err)
}
