package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/thekla/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/logger"
)

func testDocs() map[string][]string {
	return map[string][]string{
		"/docs/apple_1.txt":  {"a", "a", "unknown"},
		"/docs/cherry_2.txt": {"c", "b", "c"},
		"/docs/empty_3.txt":  {"unknown", "words"},
	}
}

func TestCollectionService_FromDir(t *testing.T) {
	svc := NewCollectionService(newMockSource(testDocs()), nil, logger.Discard())

	coll, err := svc.FromDir(context.Background(), testModel(t), "/docs", domain.FlavorAvg)
	require.NoError(t, err)

	assert.Equal(t, []string{"/docs/apple_1.txt", "/docs/cherry_2.txt"}, coll.IDs())
	assert.Equal(t, 2, coll.NumTopics())
	assert.Equal(t, domain.FlavorAvg, coll.Flavor())

	doc, ok := coll.Get("/docs/apple_1.txt")
	require.True(t, ok)
	vec, ok := doc.Centroid.Vector()
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0}, vec)
	assert.Equal(t, domain.Unassigned, doc.ClusterLabel)
}

func TestCollectionService_FromDir_Exp(t *testing.T) {
	svc := NewCollectionService(newMockSource(testDocs()), nil, logger.Discard())

	coll, err := svc.FromDir(context.Background(), testModel(t), "/docs", domain.FlavorExp)
	require.NoError(t, err)

	doc, ok := coll.Get("/docs/cherry_2.txt")
	require.True(t, ok)
	vec, _ := doc.Centroid.Vector()
	// c and b both lean to topic 1.
	assert.Equal(t, []float64{0, 1}, vec)
}

func TestCollectionService_FromDir_ListError(t *testing.T) {
	src := newMockSource(nil)
	src.listErr = errors.New("permission denied")
	svc := NewCollectionService(src, nil, logger.Discard())

	_, err := svc.FromDir(context.Background(), testModel(t), "/docs", domain.FlavorAvg)
	assert.ErrorContains(t, err, "permission denied")
}

func TestCollectionService_FromFiles(t *testing.T) {
	svc := NewCollectionService(newMockSource(testDocs()), nil, logger.Discard())

	coll, err := svc.FromFiles(context.Background(), testModel(t),
		[]string{"/docs/cherry_2.txt", "/docs/missing_4.txt"}, domain.FlavorAvg)
	require.NoError(t, err)

	assert.Equal(t, []string{"/docs/cherry_2.txt"}, coll.IDs())
}

func TestCollectionService_CacheHit(t *testing.T) {
	src := newMockSource(testDocs())
	cache := memory.NewCentroidStore()
	svc := NewCollectionService(src, cache, logger.Discard())
	tm := testModel(t)

	first, err := svc.FromDir(context.Background(), tm, "/docs", domain.FlavorAvg)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	second, err := svc.FromDir(context.Background(), tm, "/docs", domain.FlavorAvg)
	require.NoError(t, err)

	assert.Equal(t, 1, src.readCount("/docs/apple_1.txt"))
	assert.Equal(t, 1, src.readCount("/docs/cherry_2.txt"))
	// Documents without a centroid are never cached.
	assert.Equal(t, 2, src.readCount("/docs/empty_3.txt"))
	assert.Equal(t, first.IDs(), second.IDs())
}

func TestCollectionService_CacheKeyedByFlavor(t *testing.T) {
	src := newMockSource(testDocs())
	cache := memory.NewCentroidStore()
	svc := NewCollectionService(src, cache, logger.Discard())
	tm := testModel(t)

	_, err := svc.FromDir(context.Background(), tm, "/docs", domain.FlavorAvg)
	require.NoError(t, err)
	_, err = svc.FromDir(context.Background(), tm, "/docs", domain.FlavorExp)
	require.NoError(t, err)

	assert.Equal(t, 4, cache.Len())
	assert.Equal(t, 2, src.readCount("/docs/apple_1.txt"))
}

func TestCollectionService_CacheFailureFallsBack(t *testing.T) {
	svc := NewCollectionService(newMockSource(testDocs()), failingCache{}, logger.Discard())

	coll, err := svc.FromDir(context.Background(), testModel(t), "/docs", domain.FlavorAvg)
	require.NoError(t, err)
	assert.Equal(t, 2, coll.Len())
}

func TestCollectionService_Cancelled(t *testing.T) {
	svc := NewCollectionService(newMockSource(testDocs()), nil, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FromDir(ctx, testModel(t), "/docs", domain.FlavorAvg)
	assert.ErrorIs(t, err, context.Canceled)
}
