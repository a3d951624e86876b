package domain

import "errors"

var (
	// ErrReviewNotFound signals a missing review.
	ErrReviewNotFound = errors.New("review not found")
	// ErrInvalidRequest signals a malformed search or ingestion request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidReview signals a review that fails validation.
	ErrInvalidReview = errors.New("invalid review")
	// ErrBatchTooLarge signals a batch above the configured limit.
	ErrBatchTooLarge = errors.New("batch too large")
)
