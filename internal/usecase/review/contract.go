package review

import (
	"context"

	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
)

// Repository defines the storage contract for reviews.
type Repository interface {
	UpsertBatch(ctx context.Context, reviews []*domreview.Review) (created []bool, err error)
	Get(ctx context.Context, id string) (*domreview.Review, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f domreview.Filter) (int, error)
}
