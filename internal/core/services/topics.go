package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driven"
	"github.com/custodia-labs/thekla/internal/core/ports/driving"
)

// Ensure TopicService implements the interface.
var _ driving.TopicService = (*TopicService)(nil)

// TopicService inspects topic models.
type TopicService struct {
	loader driven.TopicModelLoader
}

// NewTopicService creates a topic service.
func NewTopicService(loader driven.TopicModelLoader) *TopicService {
	return &TopicService{loader: loader}
}

// TopWords returns the n highest ranked words of every topic.
func (s *TopicService) TopWords(ctx context.Context, vocabPath, betaPath string, n int) ([][]string, error) {
	tm, err := s.loader.Load(ctx, vocabPath, betaPath)
	if err != nil {
		return nil, err
	}
	return tm.TopWords(n), nil
}

// AxisLabels describes every topic by its top n words, one per line.
func AxisLabels(tm *domain.TopicModel, n int) []string {
	top := tm.TopWords(n)
	labels := make([]string, len(top))
	for i, words := range top {
		labels[i] = strings.Join(words, "\n")
	}
	return labels
}
