package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	reviewrank "github.com/kailas-cloud/reviewrank/pkg/sdk"
)

// upserter stores a batch of reviews.
type upserter interface {
	Upsert(ctx context.Context, reviews []reviewrank.Review) (reviewrank.BatchResponse, error)
}

// rowSource streams export rows from a line offset.
type rowSource interface {
	ReadReviews(offset, maxRows int, fn rowFunc, bad badRowFunc) error
}

// ingester is a worker pool: reader → channel → N workers → batch upsert.
type ingester struct {
	reviews   upserter
	workers   int
	batchSize int
	metrics   *loaderMetrics
	cursor    *cursorTracker
	logger    *zap.Logger
}

// batchItem is one batch handed to a worker.
type batchItem struct {
	seq      int
	reviews  []reviewrank.Review
	nextLine int
}

// ingestResult summarizes a run.
type ingestResult struct {
	Processed int64
	Failed    int64
	Skipped   int64
	Duration  time.Duration
}

// Run streams src from the cursor offset into storage.
func (ing *ingester) Run(ctx context.Context, src rowSource, maxRows int) (ingestResult, error) {
	cur := ing.cursor.Get()

	batches := make(chan batchItem, ing.workers*2)
	var wg sync.WaitGroup
	var processed, failed, skipped atomic.Int64

	start := time.Now()

	for i := 0; i < ing.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for b := range batches {
				ing.processBatch(ctx, workerID, b, &processed, &failed)
			}
		}(i)
	}

	readerErr := ing.produce(ctx, src, cur.LineOffset, maxRows, batches, &skipped)
	close(batches)
	wg.Wait()

	result := ingestResult{
		Processed: processed.Load(),
		Failed:    failed.Load(),
		Skipped:   skipped.Load(),
		Duration:  time.Since(start),
	}
	return result, readerErr
}

// produce reads rows and cuts them into batches.
func (ing *ingester) produce(
	ctx context.Context,
	src rowSource,
	offset, maxRows int,
	out chan<- batchItem,
	skipped *atomic.Int64,
) error {
	batch := make([]reviewrank.Review, 0, ing.batchSize)
	seq := 0
	nextLine := offset

	send := func() bool {
		select {
		case out <- batchItem{seq: seq, reviews: batch, nextLine: nextLine}:
			seq++
			batch = make([]reviewrank.Review, 0, ing.batchSize)
			return true
		case <-ctx.Done():
			return false
		}
	}

	skip := func(reason string) {
		skipped.Add(1)
		if ing.metrics != nil {
			ing.metrics.rowsFailed.WithLabelValues(reason).Inc()
		}
	}

	err := src.ReadReviews(offset, maxRows,
		func(row *steamReview, line int) bool {
			if ctx.Err() != nil {
				return false
			}
			nextLine = line + 1

			rv, ok := row.toReview()
			if !ok {
				skip("no_id")
				return true
			}
			batch = append(batch, rv)
			if len(batch) >= ing.batchSize {
				return send()
			}
			return true
		},
		func(line int, err error) {
			ing.logger.Debug("skip malformed row", zap.Int("line", line), zap.Error(err))
			skip("malformed")
		},
	)

	if len(batch) > 0 && ctx.Err() == nil {
		send()
	}
	return err
}

func (ing *ingester) processBatch(
	ctx context.Context,
	id int,
	batch batchItem,
	processed, failed *atomic.Int64,
) {
	start := time.Now()

	resp, err := ing.reviews.Upsert(ctx, batch.reviews)

	if ing.metrics != nil {
		ing.metrics.batchDuration.Observe(time.Since(start).Seconds())
		ing.metrics.batchesTotal.Inc()
	}

	if err != nil {
		ing.logger.Warn("batch upsert failed", zap.Int("worker", id), zap.Int("seq", batch.seq), zap.Error(err))
		failed.Add(int64(len(batch.reviews)))
		if ing.metrics != nil {
			ing.metrics.rowsFailed.WithLabelValues("batch_error").Add(float64(len(batch.reviews)))
		}
		// a failed batch is not recorded: a resumed run retries it
		return
	}

	processed.Add(int64(resp.Succeeded))
	failed.Add(int64(resp.Failed))

	if ing.metrics != nil {
		ing.metrics.rowsProcessed.Add(float64(resp.Succeeded))
		ing.metrics.cursorPosition.Set(float64(batch.nextLine))
		if resp.Failed > 0 {
			ing.metrics.rowsFailed.WithLabelValues("item_error").Add(float64(resp.Failed))
		}
	}
	if resp.Failed > 0 {
		// first item error is enough for diagnostics
		for _, r := range resp.Results {
			if !r.OK {
				ing.logger.Warn("review rejected", zap.Int("worker", id), zap.String("id", r.ID), zap.Error(r.Err))
				break
			}
		}
	}

	ing.cursor.Advance(batch.seq, batch.nextLine, resp.Succeeded, resp.Failed)

	total := processed.Load()
	if total%10000 < int64(ing.batchSize) {
		ing.logger.Info("progress", zap.Int64("processed", total), zap.Int64("failed", failed.Load()))
	}
}
