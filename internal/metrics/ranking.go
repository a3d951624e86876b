package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Ranking Prometheus metrics.
var (
	RankingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewrank",
			Name:      "ranking_duration_seconds",
			Help:      "Time spent scoring and sorting one candidate set",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)

	RankingCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reviewrank",
			Name:      "ranking_candidates",
			Help:      "Number of reviews ranked per call",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"method"},
	)

	Word2VecTrainingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reviewrank",
			Name:      "word2vec_trainings_total",
			Help:      "Total number of embedding model trainings",
		},
	)

	Word2VecTrainingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "reviewrank",
			Name:      "word2vec_training_duration_seconds",
			Help:      "Embedding model training duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	Word2VecCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reviewrank",
			Name:      "word2vec_cache_total",
			Help:      "Embedding model cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register registers every collector with the default registry. Must be called once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestDuration)
		prometheus.MustRegister(httpRequestsTotal)
		prometheus.MustRegister(RankingDuration)
		prometheus.MustRegister(RankingCandidates)
		prometheus.MustRegister(Word2VecTrainingsTotal)
		prometheus.MustRegister(Word2VecTrainingDuration)
		prometheus.MustRegister(Word2VecCacheTotal)
	})
}
