package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/domain"
	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/logger"
)

// MaxBatchSize is the default maximum number of reviews per upsert.
const MaxBatchSize = 500

// Service handles review ingestion and lookup.
type Service struct {
	repo         Repository
	maxBatchSize int
}

// New creates a review service.
func New(repo Repository) *Service {
	return &Service{repo: repo, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Upsert validates and stores a batch. Invalid items and repeated IDs get an
// error result; the rest are written in one pipelined round-trip.
func (s *Service) Upsert(ctx context.Context, items []*domreview.Review) ([]dombatch.Result, error) {
	if len(items) > s.maxBatchSize {
		return nil, fmt.Errorf("%d items, max %d: %w", len(items), s.maxBatchSize, domain.ErrBatchTooLarge)
	}

	results := make([]dombatch.Result, len(items))
	valid := make([]*domreview.Review, 0, len(items))
	validIdx := make([]int, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		if err := item.Validate(); err != nil {
			results[i] = dombatch.NewError(item.ID, fmt.Errorf("%w: %w", domain.ErrInvalidReview, err))
			continue
		}
		if _, dup := seen[item.ID]; dup {
			results[i] = dombatch.NewError(item.ID, fmt.Errorf("%w: duplicate id in batch", domain.ErrInvalidReview))
			continue
		}
		seen[item.ID] = struct{}{}
		valid = append(valid, item)
		validIdx = append(validIdx, i)
	}

	if len(valid) == 0 {
		return results, nil
	}

	created, err := s.repo.UpsertBatch(ctx, valid)
	if err != nil {
		logger.FromContext(ctx).Error("review batch upsert failed", zap.Int("items", len(valid)), zap.Error(err))
		for _, i := range validIdx {
			results[i] = dombatch.NewError(items[i].ID, fmt.Errorf("store: %w", err))
		}
		return results, nil
	}

	for j, i := range validIdx {
		results[i] = dombatch.NewStored(items[i].ID, created[j])
	}
	return results, nil
}

// Get returns a review by ID.
func (s *Service) Get(ctx context.Context, id string) (*domreview.Review, error) {
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	return r, nil
}

// Delete removes a review. Deleting a missing review is not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// Count returns the number of stored reviews matching the sentiment and
// keyword of f.
func (s *Service) Count(ctx context.Context, f domreview.Filter) (int, error) {
	f.Limit = 0
	n, err := s.repo.Count(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return n, nil
}
