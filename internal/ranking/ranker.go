package ranking

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/logger"
	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
)

// Ranker dispatches to a Scorer by method and orders reviews by relevance.
type Ranker struct {
	scorers    map[method.Method]Scorer
	duration   *prometheus.HistogramVec
	candidates *prometheus.HistogramVec
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithMetrics sets the latency and candidate-count histograms (label: method).
func WithMetrics(duration, candidates *prometheus.HistogramVec) Option {
	return func(r *Ranker) {
		r.duration = duration
		r.candidates = candidates
	}
}

// WithScorer registers s under its method, replacing any previous scorer.
func WithScorer(s Scorer) Option {
	return func(r *Ranker) { r.scorers[s.Method()] = s }
}

// NewRanker creates a Ranker. Jaccard and the default TF-IDF scorer are always
// present; the remaining strategies are added with WithScorer.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{scorers: map[method.Method]Scorer{}}
	WithScorer(NewJaccard())(r)
	WithScorer(NewTFIDF(tfidf.DefaultConfig()))(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scorer returns the scorer used for m, falling back to the default method.
func (r *Ranker) Scorer(m method.Method) Scorer {
	if s, ok := r.scorers[m]; ok {
		return s
	}
	return r.scorers[method.Default]
}

// Rank scores every review against query and stable-sorts the slice in place
// by descending relevance. An empty query or empty slice is returned untouched.
func (r *Ranker) Rank(ctx context.Context, query string, reviews []*review.Review, m method.Method) []*review.Review {
	if strings.TrimSpace(query) == "" || len(reviews) == 0 {
		return reviews
	}

	start := time.Now()
	s := r.Scorer(m)
	used := s.Method()

	docs := make([]Doc, len(reviews))
	for i, rv := range reviews {
		docs[i] = Doc{Key: rv.ID, Content: rv.Content}
	}

	scores := s.Score(ctx, query, docs)
	for i, rv := range reviews {
		var score float64
		if i < len(scores) {
			score = scores[i]
		}
		rv.Annotate(Clamp(score), used)
	}

	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Relevance > reviews[j].Relevance
	})

	elapsed := time.Since(start)
	if r.duration != nil {
		r.duration.WithLabelValues(string(used)).Observe(elapsed.Seconds())
	}
	if r.candidates != nil {
		r.candidates.WithLabelValues(string(used)).Observe(float64(len(reviews)))
	}
	logger.FromContext(ctx).Debug("ranked reviews",
		zap.String("method", string(used)),
		zap.String("requested_method", string(m)),
		zap.Int("count", len(reviews)),
		zap.Duration("elapsed", elapsed),
	)
	return reviews
}
