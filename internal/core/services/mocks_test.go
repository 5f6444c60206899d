package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockSource implements driven.DocumentSource over in-memory documents.
type mockSource struct {
	mu      sync.Mutex
	docs    map[string][]string
	reads   map[string]int
	listErr error
}

func newMockSource(docs map[string][]string) *mockSource {
	return &mockSource{docs: docs, reads: make(map[string]int)}
}

func (m *mockSource) ListDir(_ context.Context, _ string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var paths []string
	for p := range m.docs {
		paths = append(paths, p)
	}
	return paths, nil
}

func (m *mockSource) ListFiles(_ context.Context, paths []string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return paths, nil
}

func (m *mockSource) Stat(_ context.Context, path string) (int64, time.Time, error) {
	words, ok := m.docs[path]
	if !ok {
		return 0, time.Time{}, os.ErrNotExist
	}
	return int64(len(words)), time.Unix(1700000000, 0), nil
}

func (m *mockSource) ReadWords(_ context.Context, path string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[path]++
	words, ok := m.docs[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return words, nil
}

func (m *mockSource) readCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}

// mockLoader implements driven.TopicModelLoader.
type mockLoader struct {
	model *domain.TopicModel
	err   error
}

func (m *mockLoader) Load(_ context.Context, _, _ string) (*domain.TopicModel, error) {
	return m.model, m.err
}

// mockConfigs implements driven.ConfigLoader from a map of configs.
type mockConfigs struct {
	configs  map[string]*domain.RunConfig
	manifest *domain.Clustering
	manifErr error
}

func (m *mockConfigs) LoadRunConfig(path string) (*domain.RunConfig, error) {
	cfg, ok := m.configs[path]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	c := *cfg
	c.Path = path
	return &c, nil
}

func (m *mockConfigs) LoadManifest(_ string) (*domain.Clustering, error) {
	return m.manifest, m.manifErr
}

// mockExporter implements driven.ClusterExporter and records its input.
type mockExporter struct {
	path string
	pos  domain.POS
	docs []*domain.Document
	err  error
}

func (m *mockExporter) Export(_ context.Context, path string, pos domain.POS, docs []*domain.Document) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.path, m.pos = path, pos
	n := 0
	for _, d := range docs {
		if d.Assigned() {
			m.docs = append(m.docs, d)
			n++
		}
	}
	return n, nil
}

// mockRenderer implements driven.ChartRenderer and records the chart.
type mockRenderer struct {
	format domain.ChartFormat
	chart  *domain.Chart
}

func (m *mockRenderer) Format() domain.ChartFormat {
	return m.format
}

func (m *mockRenderer) Render(_ context.Context, chart domain.Chart) (string, error) {
	m.chart = &chart
	return chart.OutputDir + "/" + chart.Title + "." + string(m.format), nil
}

// mockClusterer implements driven.Clusterer with fixed labels.
type mockClusterer struct {
	labels []int
	params domain.ClusterParams
}

func (m *mockClusterer) Algorithm() domain.Algorithm {
	return domain.AlgorithmDBSCAN
}

func (m *mockClusterer) Fit(_ context.Context, _ *mat.SymDense, params domain.ClusterParams) ([]int, error) {
	m.params = params
	return m.labels, nil
}

// failingCache implements driven.CentroidCache and fails every call.
type failingCache struct{}

func (failingCache) Get(_ context.Context, _ driven.CentroidKey) (domain.Centroid, bool, error) {
	return domain.UndefinedCentroid(), false, errors.New("cache offline")
}

func (failingCache) Put(_ context.Context, _ driven.CentroidKey, _ domain.Centroid) error {
	return errors.New("cache offline")
}

func (failingCache) Close() error {
	return nil
}

// --- Fixtures ---

// testModel has two topics over the words a, b, c. a leans to topic 0 and
// c to topic 1.
func testModel(t *testing.T) *domain.TopicModel {
	t.Helper()
	tm, err := domain.NewTopicModel([]string{"a", "b", "c"}, mat.NewDense(2, 3, []float64{
		0.7, 0.2, 0.1,
		0.1, 0.3, 0.6,
	}))
	require.NoError(t, err)
	return tm
}

// testCollection builds a 2-topic collection from id to centroid.
func testCollection(t *testing.T, centroids map[string][]float64) *domain.Collection {
	t.Helper()
	coll := domain.NewCollection(2, domain.FlavorAvg)
	for id, vec := range centroids {
		require.NoError(t, coll.Add(domain.NewDocument(id, domain.DefinedCentroid(vec))))
	}
	return coll
}

// twoGroups returns six documents in two well separated groups: a, b, c
// near the origin and d, e, f near (5, 5).
func twoGroups(t *testing.T) *domain.Collection {
	t.Helper()
	return testCollection(t, map[string][]float64{
		"a": {0, 0},
		"b": {0, 0.1},
		"c": {0.1, 0},
		"d": {5, 5},
		"e": {5, 5.1},
		"f": {5.1, 5},
	})
}
