package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/reviewrank/internal/db"
	"github.com/kailas-cloud/reviewrank/internal/domain"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
)

// fetchChunk bounds the number of HGETALLs pipelined per round-trip.
const fetchChunk = 500

// store is the consumer interface for reviews (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	ExistsMulti(ctx context.Context, keys []string) ([]bool, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the review repository on Redis hashes.
type Repo struct {
	store  store
	prefix string
}

// New creates a review repository. Keys are "{prefix}review:{id}".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(id string) string {
	return r.prefix + "review:" + id
}

// UpsertBatch stores reviews and reports, per review, whether it was newly created.
func (r *Repo) UpsertBatch(ctx context.Context, reviews []*domreview.Review) ([]bool, error) {
	if len(reviews) == 0 {
		return nil, nil
	}

	keys := make([]string, len(reviews))
	items := make([]db.HashSetItem, len(reviews))
	for i, rv := range reviews {
		keys[i] = r.key(rv.ID)
		items[i] = db.HashSetItem{Key: keys[i], Fields: reviewToHash(rv)}
	}

	exists, err := r.store.ExistsMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("check exists: %w", err)
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return nil, fmt.Errorf("store reviews: %w", err)
	}

	created := make([]bool, len(reviews))
	for i := range created {
		created[i] = !exists[i]
	}
	return created, nil
}

// Get returns a review by ID.
func (r *Repo) Get(ctx context.Context, id string) (*domreview.Review, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review %s: %w", id, err)
	}
	return reviewFromHash(m)
}

// Delete removes a review.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, r.key(id)); err != nil {
		return fmt.Errorf("delete review %s: %w", id, err)
	}
	return nil
}

// List returns reviews matching f in ascending ID order.
func (r *Repo) List(ctx context.Context, f domreview.Filter) ([]*domreview.Review, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"review:*")
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}

	prefixLen := len(r.key(""))
	sort.Slice(keys, func(i, j int) bool {
		return lessID(keys[i][prefixLen:], keys[j][prefixLen:])
	})

	var out []*domreview.Review
	for start := 0; start < len(keys); start += fetchChunk {
		end := min(start+fetchChunk, len(keys))
		hashes, err := r.store.HGetAllMulti(ctx, keys[start:end])
		if err != nil {
			return nil, fmt.Errorf("fetch reviews: %w", err)
		}
		for _, m := range hashes {
			if len(m) == 0 {
				continue // deleted between SCAN and HGETALL
			}
			rv, err := reviewFromHash(m)
			if err != nil {
				return nil, err
			}
			if !f.Matches(rv) {
				continue
			}
			out = append(out, rv)
			if f.Limit > 0 && len(out) == f.Limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// Count returns the number of reviews matching f. Limit is ignored.
// Without a sentiment or keyword condition the key scan alone answers.
func (r *Repo) Count(ctx context.Context, f domreview.Filter) (int, error) {
	if (f.Sentiment == domreview.SentimentAll || f.Sentiment == "") && strings.TrimSpace(f.Keyword) == "" {
		keys, err := r.store.Scan(ctx, r.prefix+"review:*")
		if err != nil {
			return 0, fmt.Errorf("scan reviews: %w", err)
		}
		return len(keys), nil
	}
	reviews, err := r.List(ctx, domreview.Filter{Sentiment: f.Sentiment, Keyword: f.Keyword})
	if err != nil {
		return 0, err
	}
	return len(reviews), nil
}

// lessID orders numeric IDs numerically and everything else lexically,
// numeric IDs first.
func lessID(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
