package search

import (
	"context"

	"github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
)

// ReviewLister loads the candidate set for a query.
type ReviewLister interface {
	List(ctx context.Context, f review.Filter) ([]*review.Review, error)
}

// Ranker scores and globally orders a candidate set.
type Ranker interface {
	Rank(ctx context.Context, query string, reviews []*review.Review, m method.Method) []*review.Review
}
