package reviewrank

import (
	"context"

	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/request"
	"github.com/kailas-cloud/reviewrank/internal/ranking"
	clusteruc "github.com/kailas-cloud/reviewrank/internal/usecase/cluster"
	healthuc "github.com/kailas-cloud/reviewrank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/reviewrank/internal/usecase/search"
)

// --- reviewUseCase mock ---

type mockReviewUC struct {
	upsertFn func(ctx context.Context, items []*domreview.Review) ([]dombatch.Result, error)
	getFn    func(ctx context.Context, id string) (*domreview.Review, error)
	deleteFn func(ctx context.Context, id string) error
	countFn  func(ctx context.Context, f domreview.Filter) (int, error)
}

func (m *mockReviewUC) Upsert(ctx context.Context, items []*domreview.Review) ([]dombatch.Result, error) {
	return m.upsertFn(ctx, items)
}

func (m *mockReviewUC) Get(ctx context.Context, id string) (*domreview.Review, error) {
	return m.getFn(ctx, id)
}

func (m *mockReviewUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockReviewUC) Count(ctx context.Context, f domreview.Filter) (int, error) {
	return m.countFn(ctx, f)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req *request.Request) (searchuc.Result, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req *request.Request) (searchuc.Result, error) {
	return m.searchFn(ctx, req)
}

// --- clusterUseCase mock ---

type mockClusterUC struct {
	got clusteruc.Params
	res clusteruc.Result
	err error
}

func (m *mockClusterUC) Cluster(_ context.Context, p clusteruc.Params) (clusteruc.Result, error) {
	m.got = p
	return m.res, m.err
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(reviewSvc reviewUseCase, searchSvc searchUseCase) *Client {
	return &Client{
		reviewSvc:     reviewSvc,
		searchSvc:     searchSvc,
		ranker:        ranking.NewRanker(),
		defaultMethod: method.Default,
	}
}
