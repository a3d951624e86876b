package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewrank/internal/config"
	dbRedis "github.com/kailas-cloud/reviewrank/internal/db/redis"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	logpkg "github.com/kailas-cloud/reviewrank/internal/logger"
	"github.com/kailas-cloud/reviewrank/internal/metrics"
	"github.com/kailas-cloud/reviewrank/internal/ranking"
	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
	"github.com/kailas-cloud/reviewrank/internal/ranking/word2vec"
	reviewrepo "github.com/kailas-cloud/reviewrank/internal/repository/review"
	chiTransport "github.com/kailas-cloud/reviewrank/internal/transport/chi"
	clusteruc "github.com/kailas-cloud/reviewrank/internal/usecase/cluster"
	healthuc "github.com/kailas-cloud/reviewrank/internal/usecase/health"
	reviewuc "github.com/kailas-cloud/reviewrank/internal/usecase/review"
	searchuc "github.com/kailas-cloud/reviewrank/internal/usecase/search"
	"github.com/kailas-cloud/reviewrank/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting reviewrank API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("default_method", cfg.Ranking.DefaultMethod),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// explicit registration, no init()
	metrics.Register()

	embeddings := word2vec.NewCache(cfg.Ranking.Word2Vec.Trainer(), word2vec.Metrics{
		Cache:         metrics.Word2VecCacheTotal,
		Trainings:     metrics.Word2VecTrainingsTotal,
		TrainDuration: metrics.Word2VecTrainingDuration,
	})
	vec := cfg.Ranking.TFIDF.Vectorizer()
	ranker := ranking.NewRanker(
		ranking.WithScorer(ranking.NewTFIDF(vec, ranking.WithTermBonus(cfg.Ranking.TFIDF.Bonus()))),
		ranking.WithScorer(ranking.NewCosine(vec)),
		ranking.WithScorer(ranking.NewEmbedding(embeddings)),
		ranking.WithMetrics(metrics.RankingDuration, metrics.RankingCandidates),
	)

	repo := reviewrepo.New(store, cfg.Storage.KeyPrefix)

	searchSvc := searchuc.New(repo, ranker).WithMaxCandidates(cfg.Search.MaxCandidates)
	reviewSvc := reviewuc.New(repo).WithMaxBatchSize(cfg.Search.MaxBatchSize)
	healthSvc := healthuc.New(store, ranker)
	clusterSvc := clusteruc.New(repo, tfidf.New(vec), cfg.Ranking.Clustering.KMeans())

	server := chiTransport.NewServer(searchSvc, reviewSvc, healthSvc, logger,
		chiTransport.WithDefaultMethod(method.Parse(cfg.Ranking.DefaultMethod)),
		chiTransport.WithEmbeddingResetter(embeddings),
		chiTransport.WithClusterer(clusterSvc),
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
