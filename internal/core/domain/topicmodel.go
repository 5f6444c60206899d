package domain

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// TopicModel is a fixed vocabulary plus a topic-by-word probability matrix.
// The position of a word in the vocabulary is its global id; column id of
// the matrix is that word's topic vector. A TopicModel is immutable once
// constructed.
type TopicModel struct {
	vocab  []string
	wordID map[string]int
	topics *mat.Dense
}

// NewTopicModel validates that the matrix has one column per vocabulary word.
// Duplicate vocabulary entries keep their first id.
func NewTopicModel(vocab []string, topics *mat.Dense) (*TopicModel, error) {
	if len(vocab) == 0 || topics == nil {
		return nil, fmt.Errorf("%w: empty vocabulary or topic matrix", ErrInvalidInput)
	}
	if _, cols := topics.Dims(); cols != len(vocab) {
		return nil, fmt.Errorf("%w: topic matrix has %d columns, vocabulary has %d words",
			ErrDimensionMismatch, cols, len(vocab))
	}

	wordID := make(map[string]int, len(vocab))
	for id, word := range vocab {
		if _, seen := wordID[word]; !seen {
			wordID[word] = id
		}
	}

	return &TopicModel{
		vocab:  slices.Clone(vocab),
		wordID: wordID,
		topics: topics,
	}, nil
}

// NumTopics returns T, the number of topics (rows).
func (m *TopicModel) NumTopics() int {
	rows, _ := m.topics.Dims()
	return rows
}

// VocabSize returns V, the number of vocabulary words (columns).
func (m *TopicModel) VocabSize() int {
	return len(m.vocab)
}

// Word returns the vocabulary word with the given id.
func (m *TopicModel) Word(id int) string {
	return m.vocab[id]
}

// WordID returns the id of word, or false for an out-of-vocabulary word.
func (m *TopicModel) WordID(word string) (int, bool) {
	id, ok := m.wordID[word]
	return id, ok
}

// VectorForWord returns the topic vector of word, or false when the word is
// not in the vocabulary. Unknown words are expected and never an error.
func (m *TopicModel) VectorForWord(word string) ([]float64, bool) {
	id, ok := m.wordID[word]
	if !ok {
		return nil, false
	}
	return m.VectorForID(id), true
}

// VectorForID returns a copy of the topic vector for a word id.
// It panics when id is outside [0, V); ids only come from this model.
func (m *TopicModel) VectorForID(id int) []float64 {
	if id < 0 || id >= len(m.vocab) {
		panic(fmt.Sprintf("topic model: word id %d out of range [0, %d)", id, len(m.vocab)))
	}
	return mat.Col(nil, id, m.topics)
}

// TopWords returns, for every topic, the n words with the highest value in
// that topic. Ties are broken by ascending word id.
func (m *TopicModel) TopWords(n int) [][]string {
	n = min(max(n, 0), len(m.vocab))
	res := make([][]string, m.NumTopics())
	ids := make([]int, len(m.vocab))

	for t := range res {
		row := m.topics.RawRowView(t)
		for i := range ids {
			ids[i] = i
		}
		slices.SortStableFunc(ids, func(a, b int) int {
			switch {
			case row[a] > row[b]:
				return -1
			case row[a] < row[b]:
				return 1
			default:
				return a - b
			}
		})

		words := make([]string, n)
		for i := range words {
			words[i] = m.vocab[ids[i]]
		}
		res[t] = words
	}
	return res
}

// Fingerprint identifies the model's shape for cache keys.
func (m *TopicModel) Fingerprint() string {
	first, last := m.vocab[0], m.vocab[len(m.vocab)-1]
	return fmt.Sprintf("%dx%d:%s:%s:%g", m.NumTopics(), len(m.vocab), first, last, mat.Sum(m.topics))
}
