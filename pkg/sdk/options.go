package reviewrank

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	keyPrefix     string
	maxBatchSize  int
	maxCandidates int
	defaultMethod Method

	termBonus    *float64
	w2vDims      int
	w2vEpochs    int
	w2vSeed      uint64
	w2vSeedIsSet bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return WithRedis(addr, password)
}

// WithKeyPrefix sets the storage key prefix. Default: "reviewrank:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxBatchSize sets the maximum number of reviews per upsert.
// Default: 500.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithMaxCandidates caps how many stored reviews one search ranks.
// 0 means unlimited.
func WithMaxCandidates(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxCandidates = n
	})
}

// WithDefaultMethod sets the scoring method used when a query names none.
func WithDefaultMethod(m Method) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultMethod = m
	})
}

// WithTermBonus sets the weight of the query-term overlap bonus added to
// TF-IDF cosine similarity. 0 disables it. Default: 0.3.
func WithTermBonus(w float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.termBonus = &w
	})
}

// WithWord2Vec tunes the embedding model trained on the candidate corpus.
// Zero values keep the defaults (50 dimensions, 5 epochs).
func WithWord2Vec(dimensions, epochs int, seed uint64) Option {
	return optionFunc(func(c *clientConfig) {
		c.w2vDims = dimensions
		c.w2vEpochs = epochs
		c.w2vSeed = seed
		c.w2vSeedIsSet = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
