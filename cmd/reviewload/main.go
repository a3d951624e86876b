// Command reviewload ingests a Steam review export (JSON Lines) into
// reviewrank storage. Supports resume, parallel workers and Prometheus metrics.
//
// Usage:
//
//	reviewload -input reviews.jsonl -data-dir /data -workers 8
//
// Env vars:
//
//	REDIS_ADDR       Redis/Valkey address (default: localhost:6379)
//	REDIS_PASSWORD   Redis password
//	REVIEWRANK_PREFIX key prefix (default: reviewrank:)
//	LOG_LEVEL        debug, info, warn, error
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/rueidis"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/reviewrank/internal/logger"
	"github.com/kailas-cloud/reviewrank/internal/version"
	reviewrank "github.com/kailas-cloud/reviewrank/pkg/sdk"
)

func main() {
	cfg := parseFlags()
	if cfg.version {
		fmt.Println(version.String())
		return
	}

	logger, err := logpkg.NewLogger("local", os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		cancel()
		logger.Fatal("load failed", zap.Error(err))
	}
}

type config struct {
	input          string
	dataDir        string
	maxRows        int
	workers        int
	batchSize      int
	metricsPort    string
	cursorInterval int
	reset          bool
	version        bool
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.input, "input", "reviews.jsonl", "Steam review export, one JSON object per line")
	flag.StringVar(&cfg.dataDir, "data-dir", ".", "directory for the resume cursor")
	flag.IntVar(&cfg.maxRows, "max-rows", 0, "max rows to load (0=unlimited)")
	flag.IntVar(&cfg.workers, "workers", 4, "number of parallel upsert workers")
	flag.IntVar(&cfg.batchSize, "batch-size", 200, "reviews per batch upsert")
	flag.StringVar(&cfg.metricsPort, "metrics-port", "9091", "Prometheus metrics port (empty disables)")
	flag.IntVar(&cfg.cursorInterval, "cursor-interval", 5000, "save cursor every N reviews")
	flag.BoolVar(&cfg.reset, "reset", false, "reset cursor and start from scratch")
	flag.BoolVar(&cfg.version, "version", false, "print build metadata and exit")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	start := time.Now()

	if cfg.workers < 1 || cfg.batchSize < 1 {
		return fmt.Errorf("workers and batch-size must be positive")
	}

	reg := prometheus.NewRegistry()
	metrics := newLoaderMetrics(reg)
	if cfg.metricsPort != "" {
		metricsSrv := serveMetrics(cfg.metricsPort, reg, logger)
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = metricsSrv.Shutdown(shutCtx)
		}()
	}

	cursor, err := newCursorTracker(cfg.dataDir, cfg.cursorInterval, logger)
	if err != nil {
		return fmt.Errorf("cursor: %w", err)
	}
	if cfg.reset {
		cursor.Reset()
		logger.Info("cursor reset, starting from scratch")
	}

	reader, err := newJSONLReader(cfg.input)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if cur := cursor.Start(cfg.input); cur.Done {
		logger.Info("input already loaded, use -reset to reload", zap.String("input", cfg.input))
		return nil
	}

	client, err := connect(ctx, reg)
	if err != nil {
		return err
	}
	defer client.Close()

	startRedisPoller(ctx, client.Reviews(), metrics, logger)

	ing := &ingester{
		reviews:   client.Reviews(),
		workers:   cfg.workers,
		batchSize: cfg.batchSize,
		metrics:   metrics,
		cursor:    cursor,
		logger:    logger,
	}
	result, err := ing.Run(ctx, reader, cfg.maxRows)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if ctx.Err() != nil {
		logger.Info("interrupted, progress saved", zap.Int("line_offset", cursor.Get().LineOffset))
		cursor.forceSave()
		return nil
	}

	report(ctx, client, result, start, logger)
	cursor.Finish()
	return nil
}

func connect(ctx context.Context, reg prometheus.Registerer) (*reviewrank.Client, error) {
	opts := []reviewrank.Option{
		reviewrank.WithRedis(env("REDIS_ADDR", "localhost:6379"), os.Getenv("REDIS_PASSWORD")),
		reviewrank.WithKeyPrefix(env("REVIEWRANK_PREFIX", "reviewrank:")),
		reviewrank.WithPrometheus(reg),
	}
	client, err := reviewrank.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("reviewrank connect: %w", err)
	}
	return client, nil
}

func startRedisPoller(ctx context.Context, reviews reviewCounter, metrics *loaderMetrics, logger *zap.Logger) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{env("REDIS_ADDR", "localhost:6379")},
		Password:    os.Getenv("REDIS_PASSWORD"),
	})
	if err != nil {
		logger.Warn("cannot connect rueidis for metrics", zap.Error(err))
		return
	}
	go func() {
		<-ctx.Done()
		client.Close()
	}()

	poller := &redisPoller{
		client:   client,
		reviews:  reviews,
		metrics:  metrics,
		interval: 30 * time.Second,
	}
	poller.Start(ctx)
}

func report(ctx context.Context, client *reviewrank.Client, result ingestResult, start time.Time, logger *zap.Logger) {
	stored, _ := client.Reviews().Count(ctx, reviewrank.SentimentAll)
	elapsed := time.Since(start)
	rate := float64(result.Processed) / elapsed.Seconds()

	logger.Info("load complete",
		zap.Duration("elapsed", elapsed.Round(time.Second)),
		zap.Int("stored", stored),
		zap.Int64("processed", result.Processed),
		zap.Int64("failed", result.Failed),
		zap.Int64("skipped", result.Skipped),
		zap.Float64("rows_per_sec", rate),
	)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
