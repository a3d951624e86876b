package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/domain"
	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/request"
	"github.com/kailas-cloud/reviewrank/internal/ranking/cluster"
	clusteruc "github.com/kailas-cloud/reviewrank/internal/usecase/cluster"
	healthuc "github.com/kailas-cloud/reviewrank/internal/usecase/health"
)

// maxBodyBytes bounds a batch upsert body: 500 reviews of up to 32KB plus metadata.
const maxBodyBytes = 20 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchParams are the GET /reviews query parameters.
type SearchParams struct {
	Keyword string
	Filter  string
	Page    int
	PerPage int
	Method  string
}

// Server serves the review search HTTP API.
type Server struct {
	search        Searcher
	reviews       Reviews
	health        HealthChecker
	embeddings    EmbeddingResetter
	clusters      Clusterer
	defaultMethod method.Method
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultMethod sets the method used when a search names none.
func WithDefaultMethod(m method.Method) Option {
	return func(s *Server) {
		if m.IsValid() {
			s.defaultMethod = m
		}
	}
}

// WithEmbeddingResetter enables POST /admin/embedding/reset.
func WithEmbeddingResetter(r EmbeddingResetter) Option {
	return func(s *Server) { s.embeddings = r }
}

// WithClusterer enables GET /reviews/clusters.
func WithClusterer(c Clusterer) Option {
	return func(s *Server) { s.clusters = c }
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	reviews Reviews,
	health HealthChecker,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		search:        search,
		reviews:       reviews,
		health:        health,
		defaultMethod: method.Default,
		logger:        logger,
	}
	for _, o := range opts {
		o(s)
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrReviewNotFound, http.StatusNotFound, ErrorCodeReviewNotFound),
		sentinelHandler(domain.ErrBatchTooLarge, http.StatusRequestEntityTooLarge, ErrorCodeBatchTooLarge),
		sentinelHandler(domain.ErrInvalidReview, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeBadRequest),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/reviews", s.SearchReviews)
	r.Post("/reviews", s.BatchUpsert)
	r.Get("/reviews/count", s.CountReviews)
	if s.clusters != nil {
		r.Get("/reviews/clusters", s.ClusterReviews)
	}
	r.Get("/reviews/{id}", s.GetReview)
	r.Delete("/reviews/{id}", s.DeleteReview)
	if s.embeddings != nil {
		r.Post("/admin/embedding/reset", s.ResetEmbedding)
	}
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchReviews handles GET /reviews.
func (s *Server) SearchReviews(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	sentiment, err := domreview.ParseSentiment(params.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	m := s.defaultMethod
	if params.Method != "" {
		m = method.Parse(params.Method)
	}

	req, err := request.New(params.Keyword, sentiment, params.Page, params.PerPage, m)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToJSON(res))
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	q := r.URL.Query()
	bindings := []struct {
		name string
		dest any
	}{
		{"keyword", &p.Keyword},
		{"filter", &p.Filter},
		{"page", &p.Page},
		{"per_page", &p.PerPage},
		{"method", &p.Method},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}
	return p, nil
}

// CountReviews handles GET /reviews/count. It counts what GET /reviews would
// return for the same keyword and filter.
func (s *Server) CountReviews(w http.ResponseWriter, r *http.Request) {
	var filter, keyword string
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "filter", q, &filter); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid format for parameter filter")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "keyword", q, &keyword); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid format for parameter keyword")
		return
	}
	sentiment, err := domreview.ParseSentiment(filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	keyword = strings.TrimSpace(keyword)
	if len(keyword) > request.MaxKeywordLength {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("keyword exceeds %d characters", request.MaxKeywordLength))
		return
	}

	n, err := s.reviews.Count(r.Context(), domreview.Filter{Sentiment: sentiment, Keyword: keyword})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{Filter: string(sentiment), Keyword: keyword, Count: n})
}

// ClusterReviews handles GET /reviews/clusters.
func (s *Server) ClusterReviews(w http.ResponseWriter, r *http.Request) {
	var (
		k, limit        int
		filter, keyword string
	)
	q := r.URL.Query()
	bindings := []struct {
		name string
		dest any
	}{
		{"k", &k},
		{"limit", &limit},
		{"filter", &filter},
		{"keyword", &keyword},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "invalid format for parameter "+b.name)
			return
		}
	}
	sentiment, err := domreview.ParseSentiment(filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	if k < 0 || k > cluster.MaxK {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("k must be between 1 and %d", cluster.MaxK))
		return
	}
	if limit < 0 || limit > clusteruc.MaxLimit {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("limit must be between 1 and %d", clusteruc.MaxLimit))
		return
	}

	res, err := s.clusters.Cluster(r.Context(), clusteruc.Params{
		K:         k,
		Limit:     limit,
		Sentiment: sentiment,
		Keyword:   strings.TrimSpace(keyword),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := ClustersResponse{Reviews: res.Reviews, Clusters: make([]ClusterJSON, 0, len(res.Clusters))}
	for _, c := range res.Clusters {
		cj := ClusterJSON{
			ID:            c.ID,
			Size:          c.Size,
			TopTerms:      c.TopTerms,
			SampleReviews: make([]ReviewJSON, len(c.Samples)),
			TopApps:       make([]AppCountJSON, len(c.TopApps)),
		}
		for i, rv := range c.Samples {
			cj.SampleReviews[i] = reviewToJSON(rv, false)
		}
		for i, a := range c.TopApps {
			cj.TopApps[i] = AppCountJSON{AppID: a.AppID, Count: a.Count}
		}
		out.Clusters = append(out.Clusters, cj)
	}

	writeJSON(w, http.StatusOK, out)
}

// GetReview handles GET /reviews/{id}.
func (s *Server) GetReview(w http.ResponseWriter, r *http.Request) {
	rv, err := s.reviews.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewToJSON(rv, false))
}

// DeleteReview handles DELETE /reviews/{id}.
func (s *Server) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := s.reviews.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BatchUpsert handles POST /reviews.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req BatchUpsertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "items must not be empty")
		return
	}

	items := make([]*domreview.Review, len(req.Items))
	for i := range req.Items {
		items[i] = reviewFromJSON(&req.Items[i])
	}

	results, err := s.reviews.Upsert(r.Context(), items)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	succeeded, failed := 0, 0
	out := make([]BatchResultItem, len(results))
	for i, res := range results {
		out[i] = batchResultToJSON(res)
		if res.Status() == dombatch.StatusError {
			failed++
		} else {
			succeeded++
		}
	}

	writeJSON(w, http.StatusOK, BatchUpsertResponse{
		Items:     out,
		Succeeded: succeeded,
		Failed:    failed,
	})
}

// ResetEmbedding handles POST /admin/embedding/reset.
func (s *Server) ResetEmbedding(w http.ResponseWriter, r *http.Request) {
	s.embeddings.Reset()
	s.logger.Info("embedding model reset")
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrReviewNotFound,
		domain.ErrBatchTooLarge,
		domain.ErrInvalidReview,
		domain.ErrInvalidRequest,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
