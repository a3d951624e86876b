package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/rueidis"
	"go.uber.org/zap"

	reviewrank "github.com/kailas-cloud/reviewrank/pkg/sdk"
)

// loaderMetrics are the loader's Prometheus metrics.
type loaderMetrics struct {
	rowsProcessed prometheus.Counter
	rowsFailed    *prometheus.CounterVec
	batchesTotal  prometheus.Counter
	batchDuration prometheus.Histogram

	cursorPosition prometheus.Gauge

	redisMemory   *prometheus.GaugeVec
	storedReviews *prometheus.GaugeVec
}

func newLoaderMetrics(reg prometheus.Registerer) *loaderMetrics {
	m := &loaderMetrics{
		rowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reviewload",
			Name:      "rows_processed_total",
			Help:      "Total reviews stored",
		}),

		rowsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reviewload",
			Name:      "rows_failed_total",
			Help:      "Total rows not stored",
		}, []string{"reason"}),

		batchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reviewload",
			Name:      "batches_total",
			Help:      "Total batches sent",
		}),

		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "reviewload",
			Name:      "batch_duration_seconds",
			Help:      "Batch upsert duration",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		cursorPosition: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reviewload",
			Name:      "cursor_position",
			Help:      "Line offset of the latest stored batch",
		}),

		redisMemory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "reviewload",
			Name:      "redis_memory_bytes",
			Help:      "Redis memory usage",
		}, []string{"type"}),

		storedReviews: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "reviewload",
			Name:      "stored_reviews",
			Help:      "Reviews in storage by sentiment",
		}, []string{"sentiment"}),
	}

	reg.MustRegister(
		m.rowsProcessed, m.rowsFailed,
		m.batchesTotal, m.batchDuration,
		m.cursorPosition,
		m.redisMemory, m.storedReviews,
	)

	return m
}

// serveMetrics starts the Prometheus scrape endpoint.
func serveMetrics(port string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server error", zap.Error(err))
		}
	}()

	return srv
}

// reviewCounter counts stored reviews by sentiment.
type reviewCounter interface {
	Count(ctx context.Context, sentiment reviewrank.Sentiment) (int, error)
}

// redisPoller periodically samples Redis memory and stored review counts.
type redisPoller struct {
	client   rueidis.Client
	reviews  reviewCounter
	metrics  *loaderMetrics
	interval time.Duration
}

// Start runs the poller until ctx is done.
func (p *redisPoller) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.poll(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

func (p *redisPoller) poll(ctx context.Context) {
	p.pollMemory(ctx)
	p.pollReviews(ctx)
}

func (p *redisPoller) pollMemory(ctx context.Context) {
	resp := p.client.Do(ctx, p.client.B().Info().Section("memory").Build())
	if resp.Error() != nil {
		return
	}
	text, _ := resp.ToString()
	for _, kv := range parseInfoFields(text) {
		switch kv.key {
		case "used_memory":
			p.metrics.redisMemory.WithLabelValues("used").Set(kv.val)
		case "used_memory_peak":
			p.metrics.redisMemory.WithLabelValues("peak").Set(kv.val)
		case "used_memory_rss":
			p.metrics.redisMemory.WithLabelValues("rss").Set(kv.val)
		}
	}
}

func (p *redisPoller) pollReviews(ctx context.Context) {
	for _, s := range []reviewrank.Sentiment{reviewrank.SentimentPositive, reviewrank.SentimentNegative} {
		n, err := p.reviews.Count(ctx, s)
		if err != nil {
			return
		}
		p.metrics.storedReviews.WithLabelValues(string(s)).Set(float64(n))
	}
}

type infoField struct {
	key string
	val float64
}

// parseInfoFields extracts numeric "key:value" lines from INFO output.
// Section headers and non-numeric values are skipped.
func parseInfoFields(text string) []infoField {
	var fields []infoField
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		fields = append(fields, infoField{key: key, val: val})
	}
	return fields
}
