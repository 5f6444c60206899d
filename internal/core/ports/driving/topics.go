package driving

import "context"

// TopicService inspects topic models.
type TopicService interface {
	// TopWords returns the n highest ranked words of every topic.
	TopWords(ctx context.Context, vocabPath, betaPath string, n int) ([][]string, error)
}
