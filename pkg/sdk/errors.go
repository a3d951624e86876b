package reviewrank

import "github.com/kailas-cloud/reviewrank/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrReviewNotFound = domain.ErrReviewNotFound
	ErrInvalidRequest = domain.ErrInvalidRequest
	ErrInvalidReview  = domain.ErrInvalidReview
	ErrBatchTooLarge  = domain.ErrBatchTooLarge
)
