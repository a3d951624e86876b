package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/page"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/request"
	"github.com/kailas-cloud/reviewrank/internal/logger"
)

// Result is one page of a ranked search.
type Result struct {
	Items []*review.Review
	Page  page.Info
	// Method is the strategy that scored the candidates; empty when the
	// keyword was empty and nothing was ranked.
	Method method.Method
}

// Service searches reviews: fetch candidates, rank all of them, then paginate.
type Service struct {
	reviews       ReviewLister
	ranker        Ranker
	maxCandidates int
}

// New creates a search service.
func New(reviews ReviewLister, ranker Ranker) *Service {
	return &Service{reviews: reviews, ranker: ranker}
}

// WithMaxCandidates caps the number of reviews ranked per query. 0 = unlimited.
func (s *Service) WithMaxCandidates(n int) *Service {
	if n >= 0 {
		s.maxCandidates = n
	}
	return s
}

// Search runs req. The page window is cut only after the whole candidate set
// has been ranked, so page boundaries never depend on the page size.
func (s *Service) Search(ctx context.Context, req *request.Request) (Result, error) {
	candidates, err := s.reviews.List(ctx, review.Filter{
		Sentiment: req.Sentiment(),
		Keyword:   req.Keyword(),
		Limit:     s.maxCandidates,
	})
	if err != nil {
		return Result{}, fmt.Errorf("list candidates: %w", err)
	}
	if s.maxCandidates > 0 && len(candidates) == s.maxCandidates {
		logger.FromContext(ctx).Warn("candidate set truncated",
			zap.Int("max_candidates", s.maxCandidates))
	}

	var used method.Method
	if req.Keyword() != "" {
		candidates = s.ranker.Rank(ctx, req.Keyword(), candidates, req.Method())
		used = req.Method()
		if len(candidates) > 0 {
			used = candidates[0].ScoringMethod
		}
	}

	return Result{
		Items:  page.Slice(candidates, req.Page(), req.PerPage()),
		Page:   page.NewInfo(req.Page(), req.PerPage(), len(candidates)),
		Method: used,
	}, nil
}
