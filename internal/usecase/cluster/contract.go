package cluster

import (
	"context"

	"github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
)

// ReviewLister loads the reviews to cluster.
type ReviewLister interface {
	List(ctx context.Context, f review.Filter) ([]*review.Review, error)
}

// Vectorizer fits TF-IDF vectors over a corpus.
type Vectorizer interface {
	FitTransform(texts []string, pinned ...int) (*tfidf.Matrix, error)
}
