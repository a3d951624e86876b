package cluster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/domain"
	"github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/text"
	"github.com/kailas-cloud/reviewrank/internal/logger"
	"github.com/kailas-cloud/reviewrank/internal/ranking/cluster"
	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
)

// Clustering limits.
const (
	DefaultLimit = 1000
	MaxLimit     = 5000

	topTerms = 10
	samples  = 3
	topApps  = 3
)

// Params selects the reviews to cluster and the cluster count.
// Zero K and Limit take the defaults.
type Params struct {
	K         int
	Limit     int
	Sentiment review.Sentiment
	Keyword   string
}

// AppCount is the number of clustered reviews of one app.
type AppCount struct {
	AppID string
	Count int
}

// Cluster summarizes one group of reviews.
type Cluster struct {
	ID       int
	Size     int
	TopTerms []string
	// Samples are the first reviews of the cluster in storage order.
	Samples []*review.Review
	TopApps []AppCount
}

// Result is a clustering of the selected reviews. Empty clusters are omitted.
type Result struct {
	Reviews  int
	Clusters []Cluster
	Inertia  float64
}

// Service groups reviews by TF-IDF similarity.
type Service struct {
	reviews    ReviewLister
	vectorizer Vectorizer
	cfg        cluster.Config
}

// New creates a clustering service. cfg.K is the cluster count used when a
// request names none.
func New(reviews ReviewLister, vectorizer Vectorizer, cfg cluster.Config) *Service {
	if cfg.K <= 0 {
		cfg.K = cluster.DefaultConfig().K
	}
	return &Service{reviews: reviews, vectorizer: vectorizer, cfg: cfg}
}

// Cluster fits TF-IDF over up to p.Limit matching reviews and runs k-means.
func (s *Service) Cluster(ctx context.Context, p Params) (Result, error) {
	if p.K == 0 {
		p.K = s.cfg.K
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.K < 1 || p.K > cluster.MaxK {
		return Result{}, fmt.Errorf("%w: k must be between 1 and %d", domain.ErrInvalidRequest, cluster.MaxK)
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return Result{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidRequest, MaxLimit)
	}

	ctx = logger.With(ctx, zap.Int("k", p.K), zap.Int("limit", p.Limit))

	reviews, err := s.reviews.List(ctx, review.Filter{
		Sentiment: p.Sentiment,
		Keyword:   p.Keyword,
		Limit:     p.Limit,
	})
	if err != nil {
		return Result{}, fmt.Errorf("list reviews: %w", err)
	}
	if len(reviews) == 0 {
		return Result{}, nil
	}

	corpus := make([]string, len(reviews))
	for i, r := range reviews {
		corpus[i] = text.Normalize(r.Content)
	}
	m, err := s.vectorizer.FitTransform(corpus)
	if errors.Is(err, tfidf.ErrEmptyVocabulary) {
		logger.FromContext(ctx).Debug("clustering skipped", zap.Int("reviews", len(reviews)), zap.Error(err))
		return Result{Reviews: len(reviews)}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("vectorize: %w", err)
	}

	cfg := s.cfg
	cfg.K = p.K
	start := time.Now()
	fit := cluster.KMeans(m, cfg)
	logger.FromContext(ctx).Debug("kmeans fitted",
		zap.Int("reviews", len(reviews)),
		zap.Int("clusters", len(fit.Centroids)),
		zap.Int("iterations", fit.Iterations),
		zap.Duration("elapsed", time.Since(start)))

	return summarize(reviews, fit, m.Vocabulary()), nil
}

func summarize(reviews []*review.Review, fit cluster.Result, vocab []string) Result {
	members := make([][]*review.Review, len(fit.Centroids))
	for i, l := range fit.Labels {
		members[l] = append(members[l], reviews[i])
	}

	res := Result{Reviews: len(reviews), Inertia: fit.Inertia}
	for c, rs := range members {
		if len(rs) == 0 {
			continue
		}
		res.Clusters = append(res.Clusters, Cluster{
			ID:       c,
			Size:     len(rs),
			TopTerms: cluster.TopTerms(fit.Centroids[c], vocab, topTerms),
			Samples:  rs[:min(samples, len(rs))],
			TopApps:  countApps(rs, topApps),
		})
	}
	return res
}

// countApps returns the n most frequent app IDs, most frequent first.
// Reviews without an app are not counted.
func countApps(rs []*review.Review, n int) []AppCount {
	counts := make(map[string]int)
	for _, r := range rs {
		if r.AppID != "" {
			counts[r.AppID]++
		}
	}
	out := make([]AppCount, 0, len(counts))
	for id, c := range counts {
		out = append(out, AppCount{AppID: id, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].AppID < out[j].AppID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
