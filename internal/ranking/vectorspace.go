package ranking

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/domain/text"
	"github.com/kailas-cloud/reviewrank/internal/logger"
	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
)

// DefaultTermBonus is the weight of the query-term overlap added to TF-IDF cosine.
const DefaultTermBonus = 0.3

// TFIDF scores documents by TF-IDF cosine plus a query-term overlap bonus,
// rescaled relative to the best match and log-dampened.
type TFIDF struct {
	vectorizer *tfidf.Vectorizer
	bonus      float64
}

// TFIDFOption configures a TFIDF scorer.
type TFIDFOption func(*TFIDF)

// WithTermBonus sets the overlap bonus weight. 0 disables the bonus.
func WithTermBonus(w float64) TFIDFOption {
	return func(s *TFIDF) {
		if w >= 0 {
			s.bonus = w
		}
	}
}

// NewTFIDF creates a TFIDF scorer.
func NewTFIDF(cfg tfidf.Config, opts ...TFIDFOption) *TFIDF {
	s := &TFIDF{vectorizer: tfidf.New(cfg), bonus: DefaultTermBonus}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Method implements Scorer.
func (*TFIDF) Method() method.Method { return method.TFIDF }

// Score implements Scorer.
func (s *TFIDF) Score(ctx context.Context, query string, docs []Doc) []float64 {
	cos := cosines(ctx, s.vectorizer, query, docs)

	queryTerms := text.Set(text.Fields(text.Normalize(query)))
	combined := make([]float64, len(docs))
	var best float64
	for i, d := range docs {
		c := cos[i]
		if s.bonus > 0 && len(queryTerms) > 0 {
			c += s.bonus * overlap(queryTerms, text.Fields(text.Normalize(d.Content)))
		}
		combined[i] = c
		best = math.Max(best, c)
	}

	scores := make([]float64, len(docs))
	if best <= 0 {
		return scores
	}
	for i, c := range combined {
		scores[i] = round2(Clamp(math.Log1p(c/best*MaxScore) * 20))
	}
	return scores
}

// Cosine scores documents by plain TF-IDF cosine similarity × 100.
type Cosine struct {
	vectorizer *tfidf.Vectorizer
}

// NewCosine creates a Cosine scorer.
func NewCosine(cfg tfidf.Config) *Cosine {
	return &Cosine{vectorizer: tfidf.New(cfg)}
}

// Method implements Scorer.
func (*Cosine) Method() method.Method { return method.Cosine }

// Score implements Scorer.
func (s *Cosine) Score(ctx context.Context, query string, docs []Doc) []float64 {
	scores := cosines(ctx, s.vectorizer, query, docs)
	for i := range scores {
		scores[i] = Clamp(scores[i] * MaxScore)
	}
	return scores
}

// cosines fits v over docs + [query] and returns each document's cosine to the query.
// A corpus with no surviving terms yields all zeros.
func cosines(ctx context.Context, v *tfidf.Vectorizer, query string, docs []Doc) []float64 {
	out := make([]float64, len(docs))
	if len(docs) == 0 {
		return out
	}

	corpus := make([]string, 0, len(docs)+1)
	for _, d := range docs {
		corpus = append(corpus, text.Normalize(d.Content))
	}
	corpus = append(corpus, text.Normalize(query))

	q := len(corpus) - 1
	m, err := v.FitTransform(corpus, q)
	if err != nil {
		logger.FromContext(ctx).Debug("tfidf vectorization skipped",
			zap.Int("documents", len(docs)), zap.Error(err))
		return out
	}

	for i := range docs {
		out[i] = m.Cosine(i, q)
	}
	return out
}

// overlap returns the share of query terms present in tokens.
func overlap(queryTerms map[string]struct{}, tokens []string) float64 {
	seen := make(map[string]struct{}, len(queryTerms))
	for _, t := range tokens {
		if _, ok := queryTerms[t]; ok {
			seen[t] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(len(queryTerms))
}
