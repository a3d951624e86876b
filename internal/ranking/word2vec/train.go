package word2vec

import (
	"math"
	"math/rand/v2"
	"sort"
)

const maxExp = 6.0

// Train fits a skip-gram model with negative sampling over sentences.
// The same sentences and Config always produce the same model.
func Train(sentences [][]string, cfg Config) *Model {
	cfg = cfg.withDefaults()
	m := buildVocab(sentences, cfg.MinCount)
	if len(m.words) == 0 {
		return m
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	dim := cfg.Dimensions

	m.vectors = make([][]float64, len(m.words))
	out := make([][]float64, len(m.words))
	for i := range m.vectors {
		v := make([]float64, dim)
		for d := range v {
			v[d] = (rng.Float64() - 0.5) / float64(dim)
		}
		m.vectors[i] = v
		out[i] = make([]float64, dim)
	}

	noise := newNoiseTable(sentences, m.index)
	encoded := encode(sentences, m.index)

	var total int
	for _, s := range encoded {
		total += len(s)
	}
	total *= cfg.Epochs

	grad := make([]float64, dim)
	processed := 0
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for _, sentence := range encoded {
			for pos, center := range sentence {
				alpha := cfg.LearningRate - (cfg.LearningRate-cfg.MinLearningRate)*float64(processed)/float64(total)
				processed++

				shrink := rng.IntN(cfg.Window)
				for c := pos - cfg.Window + shrink; c <= pos+cfg.Window-shrink; c++ {
					if c < 0 || c >= len(sentence) || c == pos {
						continue
					}
					in := m.vectors[sentence[c]]
					clear(grad)
					for k := 0; k <= cfg.Negative; k++ {
						target, label := center, 1.0
						if k > 0 {
							target, label = noise.sample(rng), 0
							if target == center {
								continue
							}
						}
						g := (label - sigmoid(dot(in, out[target]))) * alpha
						axpy(g, out[target], grad)
						axpy(g, in, out[target])
					}
					axpy(1, grad, in)
				}
			}
		}
	}
	return m
}

func buildVocab(sentences [][]string, minCount int) *Model {
	counts := make(map[string]int)
	for _, s := range sentences {
		for _, w := range s {
			counts[w]++
		}
	}
	words := make([]string, 0, len(counts))
	for w, c := range counts {
		if c >= minCount {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	index := make(map[string]int, len(words))
	for i, w := range words {
		index[w] = i
	}
	return &Model{index: index, words: words}
}

func encode(sentences [][]string, index map[string]int) [][]int {
	out := make([][]int, 0, len(sentences))
	for _, s := range sentences {
		ids := make([]int, 0, len(s))
		for _, w := range s {
			if id, ok := index[w]; ok {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			out = append(out, ids)
		}
	}
	return out
}

// noiseTable samples word ids proportionally to count^0.75.
type noiseTable struct {
	cumulative []float64
}

func newNoiseTable(sentences [][]string, index map[string]int) *noiseTable {
	weights := make([]float64, len(index))
	for _, s := range sentences {
		for _, w := range s {
			if id, ok := index[w]; ok {
				weights[id]++
			}
		}
	}
	cum := make([]float64, len(weights))
	var sum float64
	for i, c := range weights {
		sum += math.Pow(c, 0.75)
		cum[i] = sum
	}
	return &noiseTable{cumulative: cum}
}

func (t *noiseTable) sample(rng *rand.Rand) int {
	x := rng.Float64() * t.cumulative[len(t.cumulative)-1]
	i := sort.SearchFloat64s(t.cumulative, x)
	if i >= len(t.cumulative) {
		i = len(t.cumulative) - 1
	}
	return i
}

func sigmoid(x float64) float64 {
	if x > maxExp {
		return 1
	}
	if x < -maxExp {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// axpy computes y += a*x.
func axpy(a float64, x, y []float64) {
	for i := range x {
		y[i] += a * x[i]
	}
}
