package ranking

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/domain/text"
	"github.com/kailas-cloud/reviewrank/internal/logger"
	"github.com/kailas-cloud/reviewrank/internal/ranking/word2vec"
)

// Embedding scores documents by cosine between mean word vectors, remapped
// from [-1, 1] to [0, 100]. Documents without in-vocabulary tokens score 0.
type Embedding struct {
	cache *word2vec.Cache
}

// NewEmbedding creates an Embedding scorer backed by cache.
func NewEmbedding(cache *word2vec.Cache) *Embedding {
	return &Embedding{cache: cache}
}

// Method implements Scorer.
func (*Embedding) Method() method.Method { return method.Word2Vec }

// Score implements Scorer.
func (s *Embedding) Score(ctx context.Context, query string, docs []Doc) []float64 {
	tokenized := make([]word2vec.Doc, len(docs))
	for i, d := range docs {
		tokenized[i] = word2vec.Doc{Key: d.Key, Tokens: text.AlnumTokens(text.Normalize(d.Content))}
	}

	docVecs, queryVec, retrained := s.cache.Vectors(tokenized, text.AlnumTokens(text.Normalize(query)))
	if retrained {
		logger.FromContext(ctx).Debug("word2vec model trained", zap.Int("documents", len(docs)))
	}

	scores := make([]float64, len(docs))
	if queryVec == nil {
		return scores
	}
	for i, v := range docVecs {
		sim, ok := word2vec.Similarity(queryVec, v)
		if !ok {
			continue
		}
		scores[i] = Clamp((sim + 1) / 2 * MaxScore)
	}
	return scores
}
