package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/reviewrank/internal/domain"
	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
)

// --- Mocks ---

type mockRepo struct {
	upsertFn func(ctx context.Context, reviews []*domreview.Review) ([]bool, error)
	getFn    func(ctx context.Context, id string) (*domreview.Review, error)
	countFn  func(ctx context.Context, f domreview.Filter) (int, error)
	deleted  []string
}

func (m *mockRepo) UpsertBatch(ctx context.Context, reviews []*domreview.Review) ([]bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, reviews)
	}
	return make([]bool, len(reviews)), nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (*domreview.Review, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, domain.ErrReviewNotFound
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepo) Count(ctx context.Context, f domreview.Filter) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, f)
	}
	return 0, nil
}

// --- Tests ---

func TestUpsert_MixedBatch(t *testing.T) {
	var stored []string
	repo := &mockRepo{upsertFn: func(_ context.Context, rs []*domreview.Review) ([]bool, error) {
		created := make([]bool, len(rs))
		for i, r := range rs {
			stored = append(stored, r.ID)
			created[i] = r.ID == "new"
		}
		return created, nil
	}}
	svc := New(repo)

	results, err := svc.Upsert(context.Background(), []*domreview.Review{
		{ID: "new", Content: "great"},
		{ID: "bad id!", Content: "x"},
		{ID: "old", Content: "meh"},
		{ID: "new", Content: "again"},
		{ID: "big", Content: strings.Repeat("a", domreview.MaxContentSize+1)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []dombatch.ItemStatus{
		dombatch.StatusCreated, dombatch.StatusError, dombatch.StatusUpdated, dombatch.StatusError, dombatch.StatusError,
	}
	for i, r := range results {
		if r.Status() != want[i] {
			t.Errorf("item %d status = %q, want %q (err %v)", i, r.Status(), want[i], r.Err())
		}
		if r.Status() == dombatch.StatusError && !errors.Is(r.Err(), domain.ErrInvalidReview) {
			t.Errorf("item %d: expected ErrInvalidReview, got %v", i, r.Err())
		}
	}
	if strings.Join(stored, ",") != "new,old" {
		t.Errorf("stored = %v, want [new old]", stored)
	}
}

func TestUpsert_TooLarge(t *testing.T) {
	svc := New(&mockRepo{}).WithMaxBatchSize(2)
	items := []*domreview.Review{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if _, err := svc.Upsert(context.Background(), items); !errors.Is(err, domain.ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}

func TestUpsert_StoreFailureMarksAllValidItems(t *testing.T) {
	repo := &mockRepo{upsertFn: func(context.Context, []*domreview.Review) ([]bool, error) {
		return nil, errors.New("OOM")
	}}
	results, err := New(repo).Upsert(context.Background(), []*domreview.Review{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range results {
		if r.OK() {
			t.Errorf("item %s should have failed", r.ID())
		}
	}
}

func TestUpsert_AllInvalidSkipsStore(t *testing.T) {
	repo := &mockRepo{upsertFn: func(context.Context, []*domreview.Review) ([]bool, error) {
		t.Fatal("store should not be called")
		return nil, nil
	}}
	results, err := New(repo).Upsert(context.Background(), []*domreview.Review{{ID: ""}})
	if err != nil || len(results) != 1 || results[0].OK() {
		t.Fatalf("unexpected outcome: %v %v", results, err)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := New(&mockRepo{}).Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := &mockRepo{}
	if err := New(repo).Delete(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "a" {
		t.Errorf("deleted = %v", repo.deleted)
	}
}

func TestCount(t *testing.T) {
	repo := &mockRepo{countFn: func(_ context.Context, f domreview.Filter) (int, error) {
		want := domreview.Filter{Sentiment: domreview.SentimentPositive, Keyword: "great"}
		if f != want {
			t.Errorf("filter = %+v, want %+v", f, want)
		}
		return 7, nil
	}}
	n, err := New(repo).Count(context.Background(), domreview.Filter{
		Sentiment: domreview.SentimentPositive,
		Keyword:   "great",
		Limit:     3,
	})
	if err != nil || n != 7 {
		t.Fatalf("Count() = %d, %v", n, err)
	}
}
