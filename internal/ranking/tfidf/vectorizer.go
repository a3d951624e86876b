// Package tfidf fits a term-weighted vector space over a small in-memory corpus.
package tfidf

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/kailas-cloud/reviewrank/internal/domain/text"
)

// ErrEmptyVocabulary is returned when no term survives tokenization and pruning.
var ErrEmptyVocabulary = errors.New("tfidf: empty vocabulary")

// Config holds vectorizer parameters.
//
// MinDF >= 1 is an absolute document count, 0 < MinDF < 1 a proportion.
// MaxDF <= 1 is a proportion, MaxDF > 1 an absolute document count.
type Config struct {
	NGramMin    int
	NGramMax    int
	MinDF       float64
	MaxDF       float64
	MaxFeatures int // 0 = unlimited
	SublinearTF bool
	SmoothIDF   bool
	StopWords   bool
	Stemming    bool

	// StripAccents folds accented letters to their base form.
	StripAccents bool
}

// DefaultConfig returns unigrams through trigrams, min_df=1, max_df=0.95,
// sublinear TF, smooth IDF, English stop words, accent folding and a
// 10000-term cap.
func DefaultConfig() Config {
	return Config{
		NGramMin:    1,
		NGramMax:    3,
		MinDF:       1,
		MaxDF:       0.95,
		MaxFeatures: 10000,
		SublinearTF: true,
		SmoothIDF:   true,
		StopWords:   true,

		StripAccents: true,
	}
}

// Vectorizer builds TF-IDF matrices.
type Vectorizer struct {
	cfg      Config
	analyzer *text.Analyzer
}

// New creates a Vectorizer. Invalid n-gram bounds are reset to unigrams.
func New(cfg Config) *Vectorizer {
	if cfg.NGramMin < 1 {
		cfg.NGramMin = 1
	}
	if cfg.NGramMax < cfg.NGramMin {
		cfg.NGramMax = cfg.NGramMin
	}
	if cfg.MaxDF <= 0 {
		cfg.MaxDF = 1
	}
	return &Vectorizer{
		cfg: cfg,
		analyzer: text.NewAnalyzer(text.AnalyzerConfig{
			StripAccents:    cfg.StripAccents,
			EnableStopwords: cfg.StopWords,
			EnableStemming:  cfg.Stemming,
		}),
	}
}

type entry struct {
	term   int
	weight float64
}

// Matrix is a fitted corpus: one L2-normalized sparse row per input text.
type Matrix struct {
	vocab []string
	rows  [][]entry // sorted by term index
}

// Vocabulary returns the fitted terms in index order.
func (m *Matrix) Vocabulary() []string { return m.vocab }

// Rows returns the number of vectorized texts.
func (m *Matrix) Rows() int { return len(m.rows) }

// EachNonZero calls fn for every stored weight of row i in term order.
func (m *Matrix) EachNonZero(i int, fn func(term int, weight float64)) {
	for _, e := range m.rows[i] {
		fn(e.term, e.weight)
	}
}

// Cosine returns the cosine similarity of rows i and j. Rows are unit length
// (or empty), so this is their dot product; the result lies in [0, 1].
func (m *Matrix) Cosine(i, j int) float64 {
	a, b := m.rows[i], m.rows[j]
	var dot float64
	for x, y := 0, 0; x < len(a) && y < len(b); {
		switch {
		case a[x].term == b[y].term:
			dot += a[x].weight * b[y].weight
			x++
			y++
		case a[x].term < b[y].term:
			x++
		default:
			y++
		}
	}
	return math.Min(math.Max(dot, 0), 1)
}

// FitTransform learns the vocabulary and IDF weights from texts and returns
// their vectors. Texts are expected to be normalized already.
//
// Terms of the pinned rows survive max_df pruning and the feature cap. Pin
// the query row: candidates prefiltered by keyword all contain the query
// terms, and pruning them would leave the query vector empty.
func (v *Vectorizer) FitTransform(texts []string, pinned ...int) (*Matrix, error) {
	n := len(texts)
	counts := make([]map[string]int, n)
	docSets := make(map[string]*roaring.Bitmap)
	corpusFreq := make(map[string]int)

	for i, t := range texts {
		grams := v.ngrams(v.analyzer.Analyze(t))
		c := make(map[string]int, len(grams))
		for _, g := range grams {
			c[g]++
			corpusFreq[g]++
			bm, ok := docSets[g]
			if !ok {
				bm = roaring.NewBitmap()
				docSets[g] = bm
			}
			bm.Add(uint32(i))
		}
		counts[i] = c
	}

	protected := make(map[string]bool)
	for _, p := range pinned {
		if p < 0 || p >= n {
			continue
		}
		for term := range counts[p] {
			protected[term] = true
		}
	}

	minCount, maxCount := v.dfBounds(n)
	kept := make([]string, 0, len(docSets))
	for term, bm := range docSets {
		df := float64(bm.GetCardinality())
		if df < minCount || (df > maxCount && !protected[term]) {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil, ErrEmptyVocabulary
	}

	if v.cfg.MaxFeatures > 0 && len(kept) > v.cfg.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			pi, pj := protected[kept[i]], protected[kept[j]]
			if pi != pj {
				return pi
			}
			fi, fj := corpusFreq[kept[i]], corpusFreq[kept[j]]
			if fi != fj {
				return fi > fj
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.cfg.MaxFeatures]
	}
	sort.Strings(kept)

	index := make(map[string]int, len(kept))
	idf := make([]float64, len(kept))
	for i, term := range kept {
		index[term] = i
		idf[i] = v.idf(n, int(docSets[term].GetCardinality()))
	}

	rows := make([][]entry, n)
	for i, c := range counts {
		row := make([]entry, 0, len(c))
		var norm float64
		for term, tf := range c {
			j, ok := index[term]
			if !ok {
				continue
			}
			w := float64(tf)
			if v.cfg.SublinearTF {
				w = 1 + math.Log(w)
			}
			w *= idf[j]
			row = append(row, entry{term: j, weight: w})
		}
		sort.Slice(row, func(a, b int) bool { return row[a].term < row[b].term })
		for _, e := range row {
			norm += e.weight * e.weight
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range row {
				row[k].weight /= norm
			}
		}
		rows[i] = row
	}

	return &Matrix{vocab: kept, rows: rows}, nil
}

func (v *Vectorizer) idf(n, df int) float64 {
	if v.cfg.SmoothIDF {
		return math.Log(float64(1+n)/float64(1+df)) + 1
	}
	return math.Log(float64(n)/float64(df)) + 1
}

// dfBounds converts MinDF/MaxDF into absolute document counts for a corpus of n texts.
func (v *Vectorizer) dfBounds(n int) (minCount, maxCount float64) {
	minCount = v.cfg.MinDF
	if minCount > 0 && minCount < 1 {
		minCount = math.Ceil(minCount * float64(n))
	}
	maxCount = v.cfg.MaxDF
	if maxCount <= 1 {
		maxCount = maxCount * float64(n)
	}
	return minCount, maxCount
}

// ngrams expands tokens into space-joined n-grams within the configured range.
func (v *Vectorizer) ngrams(tokens []string) []string {
	if v.cfg.NGramMin == 1 && v.cfg.NGramMax == 1 {
		return tokens
	}
	var out []string
	for size := v.cfg.NGramMin; size <= v.cfg.NGramMax; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+size], " "))
		}
	}
	return out
}
