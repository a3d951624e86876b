package ranking

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
)

// HealthCheck ranks a fixed two-review sample with the default scorer and verifies the
// best match comes first with an in-range score.
func (r *Ranker) HealthCheck(ctx context.Context) error {
	sample := []*review.Review{
		{ID: "check-miss", Content: "slow puzzle"},
		{ID: "check-hit", Content: "great fast shooter"},
	}
	ranked := r.Rank(ctx, "great shooter", sample, method.Default)

	top := ranked[0]
	if top.ID != "check-hit" {
		return fmt.Errorf("ranking check: expected check-hit first, got %s", top.ID)
	}
	if top.Relevance <= 0 || top.Relevance > MaxScore {
		return fmt.Errorf("ranking check: score %v out of range", top.Relevance)
	}
	return nil
}
