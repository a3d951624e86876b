package reviewrank

import (
	"context"
	"sync"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/ranking/word2vec"
)

var (
	defaultRankerOnce sync.Once
	defaultRanker     rankUseCase
)

// Rank scores reviews against query and returns them sorted by descending
// relevance (0 to 100, ties keep input order). An empty query returns the
// reviews unchanged. Unknown methods fall back to MethodTFIDF.
//
// The package-level ranker keeps its own word-embedding model; use
// Client.Rank to share the client's model and settings.
func Rank(ctx context.Context, query string, reviews []Review, m Method) []Review {
	defaultRankerOnce.Do(func() {
		cfg := &clientConfig{}
		defaultRanker = newRanker(cfg, word2vec.NewCache(word2vecConfig(cfg), word2vec.Metrics{}))
	})
	return rankWith(ctx, defaultRanker, query, reviews, resolveMethod(m, method.Default))
}
