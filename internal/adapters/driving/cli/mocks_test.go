package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/thekla/internal/core/domain"
	"github.com/custodia-labs/thekla/internal/core/ports/driving"
)

// mockRunService implements driving.RunService for testing.
type mockRunService struct {
	mu      sync.Mutex
	calls   [][]string
	docDir  string
	failing map[string]bool
}

func (m *mockRunService) Run(ctx context.Context, path string) (*driving.RunReport, error) {
	reports, err := m.RunAll(ctx, []string{path})
	if len(reports) == 0 {
		return nil, err
	}
	return reports[0], err
}

func (m *mockRunService) RunAll(_ context.Context, paths []string) ([]*driving.RunReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, append([]string(nil), paths...))

	var reports []*driving.RunReport
	var errs []error
	for _, p := range paths {
		if m.failing[p] {
			errs = append(errs, errors.New("broken config "+p))
			continue
		}
		reports = append(reports, &driving.RunReport{
			ID:         "run-1",
			ConfigPath: p,
			Title:      "verbs",
			Documents:  3,
			DocDir:     m.docDir,
			Clustering: &domain.Clustering{
				Clusters: []domain.Cluster{{Number: 1, Name: "cluster1 #2", Members: []string{"a_1.txt", "a_2.txt"}}},
				Noise:    []string{"a_3.txt"},
			},
			Exported:    2,
			SemevalFile: "/tmp/semeval.key",
			ChartPath:   "/tmp/out/verbs.svg",
		})
	}
	return reports, errors.Join(errs...)
}

func (m *mockRunService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockRunService) lastCall() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// mockTopicService implements driving.TopicService for testing.
type mockTopicService struct {
	topics [][]string
	err    error
	gotN   int
}

func (m *mockTopicService) TopWords(_ context.Context, _, _ string, n int) ([][]string, error) {
	m.gotN = n
	return m.topics, m.err
}

// setupServices installs mocks and restores the previous services after t.
func setupServices(t interface{ Cleanup(func()) }, runs *mockRunService, topics *mockTopicService) {
	oldRun, oldTopics, oldFactory := runService, topicService, factory
	if runs == nil {
		runs = &mockRunService{}
	}
	if topics == nil {
		topics = &mockTopicService{}
	}
	runService, topicService, factory = runs, topics, nil
	t.Cleanup(func() {
		runService, topicService, factory = oldRun, oldTopics, oldFactory
	})
}
