package reviewrank

import (
	"context"
	"fmt"
	"time"

	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
)

// ReviewService manages stored reviews.
type ReviewService struct {
	svc reviewUseCase
	obs *observer
}

// Upsert creates or updates reviews in one batch. Invalid reviews get a
// failed BatchResult; the error is non-nil only when the whole batch is
// rejected (e.g. ErrBatchTooLarge).
func (s *ReviewService) Upsert(ctx context.Context, reviews []Review) (resp BatchResponse, err error) {
	start := time.Now()
	defer func() { s.obs.observe("review.upsert", start, err) }()

	items := make([]*domreview.Review, len(reviews))
	for i := range reviews {
		items[i] = toInternalReview(&reviews[i])
	}
	results, err := s.svc.Upsert(ctx, items)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("upsert reviews: %w", err)
	}
	return fromInternalBatch(results), nil
}

// Get retrieves a review by ID.
func (s *ReviewService) Get(ctx context.Context, id string) (r Review, err error) {
	start := time.Now()
	defer func() { s.obs.observe("review.get", start, err) }()

	rv, err := s.svc.Get(ctx, id)
	if err != nil {
		return Review{}, fmt.Errorf("get review: %w", err)
	}
	return fromInternalReview(rv), nil
}

// Delete removes a review by ID. Deleting a missing review is not an error.
func (s *ReviewService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("review.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// Count returns the number of stored reviews with the given sentiment.
// An empty sentiment counts all reviews.
func (s *ReviewService) Count(ctx context.Context, sentiment Sentiment) (n int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("review.count", start, err) }()

	parsed, err := domreview.ParseSentiment(string(sentiment))
	if err != nil {
		return 0, fmt.Errorf("count: %w: %w", ErrInvalidRequest, err)
	}
	n, err = s.svc.Count(ctx, domreview.Filter{Sentiment: parsed})
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// CountMatching returns the number of stored reviews with the given sentiment
// whose content contains keyword, ignoring case.
func (s *ReviewService) CountMatching(ctx context.Context, keyword string, sentiment Sentiment) (n int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("review.count", start, err) }()

	parsed, err := domreview.ParseSentiment(string(sentiment))
	if err != nil {
		return 0, fmt.Errorf("count matching: %w: %w", ErrInvalidRequest, err)
	}
	n, err = s.svc.Count(ctx, domreview.Filter{Sentiment: parsed, Keyword: keyword})
	if err != nil {
		return 0, fmt.Errorf("count matching: %w", err)
	}
	return n, nil
}
