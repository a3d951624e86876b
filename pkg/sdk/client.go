package reviewrank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/reviewrank/internal/db"
	dbRedis "github.com/kailas-cloud/reviewrank/internal/db/redis"
	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/request"
	"github.com/kailas-cloud/reviewrank/internal/ranking"
	"github.com/kailas-cloud/reviewrank/internal/ranking/cluster"
	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
	"github.com/kailas-cloud/reviewrank/internal/ranking/word2vec"
	reviewrepo "github.com/kailas-cloud/reviewrank/internal/repository/review"
	clusteruc "github.com/kailas-cloud/reviewrank/internal/usecase/cluster"
	healthuc "github.com/kailas-cloud/reviewrank/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/reviewrank/internal/usecase/review"
	searchuc "github.com/kailas-cloud/reviewrank/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "reviewrank:"
)

// Internal interfaces, swapped for fakes in tests.
type reviewUseCase interface {
	Upsert(ctx context.Context, items []*domreview.Review) ([]dombatch.Result, error)
	Get(ctx context.Context, id string) (*domreview.Review, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f domreview.Filter) (int, error)
}

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Result, error)
}

type clusterUseCase interface {
	Cluster(ctx context.Context, p clusteruc.Params) (clusteruc.Result, error)
}

type rankUseCase interface {
	Rank(ctx context.Context, query string, reviews []*domreview.Review, m method.Method) []*domreview.Review
}

// Client is the reviewrank SDK entry point.
type Client struct {
	store         db.Store
	reviewSvc     reviewUseCase
	searchSvc     searchUseCase
	healthSvc     healthUseCase
	clusterSvc    clusterUseCase
	ranker        rankUseCase
	embeddings    *word2vec.Cache
	defaultMethod method.Method
	obs           *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("reviewrank: database address required (use WithRedis or WithValkey)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.addrs,
		Password:   cfg.password,
		ClientName: "reviewrank-sdk",
	})
	if err != nil {
		return nil, fmt.Errorf("reviewrank: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("reviewrank: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	embeddings := word2vec.NewCache(word2vecConfig(cfg), word2vec.Metrics{})
	ranker := newRanker(cfg, embeddings)

	repo := reviewrepo.New(store, cfg.keyPrefix)
	reviewSvc := reviewuc.New(repo).WithMaxBatchSize(cfg.maxBatchSize)
	searchSvc := searchuc.New(repo, ranker).WithMaxCandidates(cfg.maxCandidates)

	return &Client{
		store:         store,
		reviewSvc:     reviewSvc,
		searchSvc:     searchSvc,
		healthSvc:     healthuc.New(store, ranker),
		clusterSvc:    clusteruc.New(repo, tfidf.New(tfidf.DefaultConfig()), cluster.DefaultConfig()),
		ranker:        ranker,
		embeddings:    embeddings,
		defaultMethod: resolveMethod(cfg.defaultMethod, method.Default),
		obs:           obs,
	}
}

func word2vecConfig(cfg *clientConfig) word2vec.Config {
	wc := word2vec.DefaultConfig()
	if cfg.w2vDims > 0 {
		wc.Dimensions = cfg.w2vDims
	}
	if cfg.w2vEpochs > 0 {
		wc.Epochs = cfg.w2vEpochs
	}
	if cfg.w2vSeedIsSet {
		wc.Seed = cfg.w2vSeed
	}
	return wc
}

func newRanker(cfg *clientConfig, embeddings *word2vec.Cache) *ranking.Ranker {
	vec := tfidf.DefaultConfig()
	var tfidfOpts []ranking.TFIDFOption
	if cfg.termBonus != nil {
		tfidfOpts = append(tfidfOpts, ranking.WithTermBonus(*cfg.termBonus))
	}
	return ranking.NewRanker(
		ranking.WithScorer(ranking.NewTFIDF(vec, tfidfOpts...)),
		ranking.WithScorer(ranking.NewCosine(vec)),
		ranking.WithScorer(ranking.NewEmbedding(embeddings)),
	)
}

// resolveMethod maps an SDK method to the internal one; empty yields def.
func resolveMethod(m Method, def method.Method) method.Method {
	if m == "" {
		return def
	}
	return method.Parse(string(m))
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Reviews returns the review management service.
func (c *Client) Reviews() *ReviewService {
	return &ReviewService{svc: c.reviewSvc, obs: c.obs}
}

// Search ranks every stored review matching the query's filters and returns
// the requested page.
func (c *Client) Search(ctx context.Context, q SearchQuery) (page SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := request.New(q.Keyword, domreview.Sentiment(q.Sentiment), q.Page, q.PerPage,
		resolveMethod(q.Method, c.defaultMethod))
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w: %w", ErrInvalidRequest, err)
	}

	res, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	out := SearchPage{
		Reviews:    make([]Review, len(res.Items)),
		Page:       res.Page.Page,
		PerPage:    res.Page.PerPage,
		Total:      res.Page.Total,
		TotalPages: res.Page.TotalPages,
		Method:     Method(res.Method),
	}
	for i, r := range res.Items {
		out.Reviews[i] = fromInternalReview(r)
	}
	c.obs.observeSearch(out.Method, out.Total)
	return out, nil
}

// Cluster groups stored reviews matching q by TF-IDF similarity with seeded
// k-means. The same stored reviews and query always yield the same clusters.
func (c *Client) Cluster(ctx context.Context, q ClusterQuery) (out Clustering, err error) {
	start := time.Now()
	defer func() { c.obs.observe("cluster", start, err) }()

	sentiment, err := domreview.ParseSentiment(string(q.Sentiment))
	if err != nil {
		return Clustering{}, fmt.Errorf("cluster: %w: %w", ErrInvalidRequest, err)
	}
	res, err := c.clusterSvc.Cluster(ctx, clusteruc.Params{
		K:         q.K,
		Limit:     q.Limit,
		Sentiment: sentiment,
		Keyword:   strings.TrimSpace(q.Keyword),
	})
	if err != nil {
		return Clustering{}, fmt.Errorf("cluster: %w", err)
	}

	out = Clustering{Reviews: res.Reviews, Clusters: make([]Cluster, len(res.Clusters))}
	for i, cl := range res.Clusters {
		oc := Cluster{
			ID:       cl.ID,
			Size:     cl.Size,
			TopTerms: cl.TopTerms,
			Samples:  make([]Review, len(cl.Samples)),
			TopApps:  make([]AppCount, len(cl.TopApps)),
		}
		for j, r := range cl.Samples {
			oc.Samples[j] = fromInternalReview(r)
		}
		for j, a := range cl.TopApps {
			oc.TopApps[j] = AppCount{AppID: a.AppID, Count: a.Count}
		}
		out.Clusters[i] = oc
	}
	return out, nil
}

// Rank scores reviews against query with the client's scorers and returns
// them sorted by descending relevance. Storage is not touched.
func (c *Client) Rank(ctx context.Context, query string, reviews []Review, m Method) []Review {
	return rankWith(ctx, c.ranker, query, reviews, resolveMethod(m, c.defaultMethod))
}

// ResetEmbedding drops the trained word-embedding model; the next word2vec
// search retrains it.
func (c *Client) ResetEmbedding() {
	if c.embeddings != nil {
		c.embeddings.Reset()
	}
}

func rankWith(ctx context.Context, r rankUseCase, query string, reviews []Review, m method.Method) []Review {
	items := make([]*domreview.Review, len(reviews))
	for i := range reviews {
		items[i] = toInternalReview(&reviews[i])
	}
	ranked := r.Rank(ctx, query, items, m)
	out := make([]Review, len(ranked))
	for i, rv := range ranked {
		out[i] = fromInternalReview(rv)
	}
	return out
}
