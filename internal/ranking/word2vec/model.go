// Package word2vec trains skip-gram word embeddings over a review corpus and
// caches the trained model between ranking calls.
package word2vec

import "math"

// Config holds trainer parameters.
type Config struct {
	Dimensions      int
	Window          int
	MinCount        int
	Negative        int
	Epochs          int
	LearningRate    float64
	MinLearningRate float64
	Seed            uint64
}

// DefaultConfig returns the trainer defaults.
func DefaultConfig() Config {
	return Config{
		Dimensions:      50,
		Window:          5,
		MinCount:        1,
		Negative:        5,
		Epochs:          5,
		LearningRate:    0.025,
		MinLearningRate: 0.0001,
		Seed:            1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Dimensions <= 0 {
		c.Dimensions = d.Dimensions
	}
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.MinCount <= 0 {
		c.MinCount = d.MinCount
	}
	if c.Negative < 0 {
		c.Negative = d.Negative
	}
	if c.Epochs <= 0 {
		c.Epochs = d.Epochs
	}
	if c.LearningRate <= 0 {
		c.LearningRate = d.LearningRate
	}
	if c.MinLearningRate <= 0 || c.MinLearningRate > c.LearningRate {
		c.MinLearningRate = math.Min(d.MinLearningRate, c.LearningRate)
	}
	return c
}

// Model is a trained embedding table. It is immutable after training.
type Model struct {
	index   map[string]int
	words   []string
	vectors [][]float64
}

// Size returns the vocabulary size.
func (m *Model) Size() int { return len(m.words) }

// Dimensions returns the embedding width.
func (m *Model) Dimensions() int {
	if len(m.vectors) == 0 {
		return 0
	}
	return len(m.vectors[0])
}

// Vector returns the embedding of word.
func (m *Model) Vector(word string) ([]float64, bool) {
	i, ok := m.index[word]
	if !ok {
		return nil, false
	}
	return m.vectors[i], true
}

// Mean averages the embeddings of the in-vocabulary tokens.
// It returns nil when no token is in the vocabulary.
func (m *Model) Mean(tokens []string) []float64 {
	var mean []float64
	n := 0
	for _, t := range tokens {
		v, ok := m.Vector(t)
		if !ok {
			continue
		}
		if mean == nil {
			mean = make([]float64, len(v))
		}
		for i, x := range v {
			mean[i] += x
		}
		n++
	}
	if n == 0 {
		return nil
	}
	for i := range mean {
		mean[i] /= float64(n)
	}
	return mean
}

// Similarity returns the cosine similarity of a and b in [-1, 1].
// ok is false when either vector is missing or has zero length.
func Similarity(a, b []float64) (sim float64, ok bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	sim = dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim)), true
}
