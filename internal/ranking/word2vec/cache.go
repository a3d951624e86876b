package word2vec

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Doc is one tokenized document. An empty Key disables vector memoization for it.
type Doc struct {
	Key    string
	Tokens []string
}

// Metrics receives cache and training observations. Nil fields are skipped.
type Metrics struct {
	Cache         *prometheus.CounterVec // label: result
	Trainings     prometheus.Counter
	TrainDuration prometheus.Observer
}

// Cache holds at most one trained model, keyed by the fingerprint of the corpus
// it was trained on. A call with a different corpus retrains.
type Cache struct {
	cfg     Config
	metrics Metrics

	mu          sync.Mutex
	trained     bool
	fingerprint uint64
	model       *Model
	docVectors  map[string][]float64
}

// NewCache creates an untrained cache.
func NewCache(cfg Config, m Metrics) *Cache {
	return &Cache{cfg: cfg.withDefaults(), metrics: m}
}

// Trained reports whether a model is held.
func (c *Cache) Trained() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trained
}

// Reset drops the model and memoized vectors.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trained = false
	c.fingerprint = 0
	c.model = nil
	c.docVectors = nil
}

// Vectors returns the mean embedding of every document and of the query,
// training first when the cache is untrained or the corpus changed. A nil
// vector means no token was in the vocabulary. retrained reports whether this
// call trained a new model.
func (c *Cache) Vectors(docs []Doc, query []string) (docVecs [][]float64, queryVec []float64, retrained bool) {
	fp := Fingerprint(docs, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.trained || c.fingerprint != fp {
		c.observe("miss")
		c.train(docs, query, fp)
		retrained = true
	} else {
		c.observe("hit")
	}

	docVecs = make([][]float64, len(docs))
	for i, d := range docs {
		if d.Key == "" {
			docVecs[i] = c.model.Mean(d.Tokens)
			continue
		}
		v, ok := c.docVectors[d.Key]
		if !ok {
			v = c.model.Mean(d.Tokens)
			c.docVectors[d.Key] = v
		}
		docVecs[i] = v
	}
	return docVecs, c.model.Mean(query), retrained
}

func (c *Cache) train(docs []Doc, query []string, fp uint64) {
	start := time.Now()
	sentences := make([][]string, 0, len(docs)+1)
	for _, d := range docs {
		sentences = append(sentences, d.Tokens)
	}
	sentences = append(sentences, query)

	c.model = Train(sentences, c.cfg)
	c.fingerprint = fp
	c.trained = true
	c.docVectors = make(map[string][]float64, len(docs))

	if c.metrics.Trainings != nil {
		c.metrics.Trainings.Inc()
	}
	if c.metrics.TrainDuration != nil {
		c.metrics.TrainDuration.Observe(time.Since(start).Seconds())
	}
}

func (c *Cache) observe(result string) {
	if c.metrics.Cache != nil {
		c.metrics.Cache.WithLabelValues(result).Inc()
	}
}

const (
	tokenSep = 0x1f
	docSep   = 0x1e
)

// Fingerprint hashes document keys and token streams in order, then the query.
func Fingerprint(docs []Doc, query []string) uint64 {
	h := xxhash.New()
	for _, d := range docs {
		_, _ = h.WriteString(d.Key)
		_, _ = h.Write([]byte{tokenSep})
		for _, t := range d.Tokens {
			_, _ = h.WriteString(t)
			_, _ = h.Write([]byte{tokenSep})
		}
		_, _ = h.Write([]byte{docSep})
	}
	for _, t := range query {
		_, _ = h.WriteString(t)
		_, _ = h.Write([]byte{tokenSep})
	}
	return h.Sum64()
}
