package main

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	reviewrank "github.com/kailas-cloud/reviewrank/pkg/sdk"
)

type fakeUpserter struct {
	mu      sync.Mutex
	stored  []string
	failIDs map[string]bool // rejected per item
	failAll bool
}

func (f *fakeUpserter) Upsert(_ context.Context, reviews []reviewrank.Review) (reviewrank.BatchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return reviewrank.BatchResponse{}, errors.New("connection reset")
	}
	var resp reviewrank.BatchResponse
	for _, r := range reviews {
		if f.failIDs[r.ID] {
			resp.Results = append(resp.Results, reviewrank.BatchResult{ID: r.ID, Err: reviewrank.ErrInvalidReview})
			resp.Failed++
			continue
		}
		f.stored = append(f.stored, r.ID)
		resp.Results = append(resp.Results, reviewrank.BatchResult{ID: r.ID, OK: true, Created: true})
		resp.Succeeded++
	}
	return resp, nil
}

// sliceSource serves rows from memory; a nil entry is a malformed line.
type sliceSource struct {
	rows []*steamReview
}

func (s *sliceSource) ReadReviews(offset, maxRows int, fn rowFunc, bad badRowFunc) error {
	n := 0
	for line := offset; line < len(s.rows); line++ {
		if s.rows[line] == nil {
			bad(line, errors.New("malformed"))
			continue
		}
		if !fn(s.rows[line], line) {
			return nil
		}
		n++
		if maxRows > 0 && n >= maxRows {
			return nil
		}
	}
	return nil
}

func row(id string) *steamReview {
	text := "review " + id
	return &steamReview{RecommendationID: json.Number(id), Review: &text}
}

func newTestIngester(t *testing.T, up upserter, workers, batch int) (*ingester, *loaderMetrics) {
	t.Helper()
	ct, err := newCursorTracker(t.TempDir(), 1000, zap.NewNop())
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	ct.Start("test.jsonl")
	m := newLoaderMetrics(prometheus.NewRegistry())
	return &ingester{
		reviews:   up,
		workers:   workers,
		batchSize: batch,
		metrics:   m,
		cursor:    ct,
		logger:    zap.NewNop(),
	}, m
}

func TestIngester_Run(t *testing.T) {
	src := &sliceSource{rows: []*steamReview{
		row("1"), row("2"), nil, row("4"), {Review: nil}, row("6"), row("7"),
	}}
	up := &fakeUpserter{failIDs: map[string]bool{"6": true}}
	ing, m := newTestIngester(t, up, 3, 2)

	res, err := ing.Run(context.Background(), src, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Processed != 4 || res.Failed != 1 || res.Skipped != 2 {
		t.Errorf("result = %+v, want processed 4 failed 1 skipped 2", res)
	}
	sort.Strings(up.stored)
	if len(up.stored) != 4 || up.stored[0] != "1" || up.stored[3] != "7" {
		t.Errorf("stored = %v", up.stored)
	}
	if got := ing.cursor.Get().LineOffset; got != 7 {
		t.Errorf("cursor offset = %d, want 7", got)
	}
	if got := testutil.ToFloat64(m.rowsFailed.WithLabelValues("malformed")); got != 1 {
		t.Errorf("malformed = %v", got)
	}
	if got := testutil.ToFloat64(m.rowsFailed.WithLabelValues("no_id")); got != 1 {
		t.Errorf("no_id = %v", got)
	}
	if got := testutil.ToFloat64(m.rowsProcessed); got != 4 {
		t.Errorf("rows processed = %v", got)
	}
}

func TestIngester_ResumesFromCursor(t *testing.T) {
	src := &sliceSource{rows: []*steamReview{row("1"), row("2"), row("3"), row("4")}}
	dir := t.TempDir()
	prev, err := newCursorTracker(dir, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	prev.Start("test.jsonl")
	prev.Advance(0, 2, 2, 0)

	ct, err := newCursorTracker(dir, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("reload cursor: %v", err)
	}
	ct.Start("test.jsonl")

	up := &fakeUpserter{}
	ing := &ingester{reviews: up, workers: 1, batchSize: 10, cursor: ct, logger: zap.NewNop()}

	if _, err := ing.Run(context.Background(), src, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(up.stored) != 2 || up.stored[0] != "3" {
		t.Errorf("stored = %v, want [3 4]", up.stored)
	}
}

func TestIngester_BatchErrorHoldsCursor(t *testing.T) {
	src := &sliceSource{rows: []*steamReview{row("1"), row("2")}}
	ing, m := newTestIngester(t, &fakeUpserter{failAll: true}, 1, 5)

	res, err := ing.Run(context.Background(), src, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Failed != 2 || res.Processed != 0 {
		t.Errorf("result = %+v", res)
	}
	if got := ing.cursor.Get().LineOffset; got != 0 {
		t.Errorf("cursor offset = %d, want 0 so the batch is retried", got)
	}
	if got := testutil.ToFloat64(m.rowsFailed.WithLabelValues("batch_error")); got != 2 {
		t.Errorf("batch_error = %v", got)
	}
}

func TestIngester_MaxRows(t *testing.T) {
	src := &sliceSource{rows: []*steamReview{row("1"), row("2"), row("3")}}
	up := &fakeUpserter{}
	ing, _ := newTestIngester(t, up, 2, 1)

	if _, err := ing.Run(context.Background(), src, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(up.stored) != 2 {
		t.Errorf("stored = %v, want 2 reviews", up.stored)
	}
}
