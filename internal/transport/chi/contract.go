package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/request"
	clusteruc "github.com/kailas-cloud/reviewrank/internal/usecase/cluster"
	healthuc "github.com/kailas-cloud/reviewrank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/reviewrank/internal/usecase/search"
)

// Clusterer groups reviews by content similarity.
type Clusterer interface {
	Cluster(ctx context.Context, p clusteruc.Params) (clusteruc.Result, error)
}

// Searcher runs ranked review searches.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Result, error)
}

// Reviews handles review ingestion and lookup.
type Reviews interface {
	Upsert(ctx context.Context, items []*domreview.Review) ([]dombatch.Result, error)
	Get(ctx context.Context, id string) (*domreview.Review, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f domreview.Filter) (int, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// EmbeddingResetter drops the trained word-embedding model.
type EmbeddingResetter interface {
	Reset()
}
