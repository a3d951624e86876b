package review

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/kailas-cloud/reviewrank/internal/db"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
)

// memStore is an in-memory hash store for tests. The *Fn hooks override behaviour.
type memStore struct {
	hashes map[string]map[string]string

	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	existsMultiFn func(ctx context.Context, keys []string) ([]bool, error)
	scanFn        func(ctx context.Context, pattern string) ([]string, error)

	hgetAllMultiCalls int
}

func (m *memStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	for _, it := range items {
		h := make(map[string]string, len(it.Fields))
		for k, v := range it.Fields {
			h[k] = v
		}
		m.hashes[it.Key] = h
	}
	return nil
}

func (m *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	h, ok := m.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return h, nil
}

func (m *memStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.hgetAllMultiCalls++
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *memStore) ExistsMulti(ctx context.Context, keys []string) ([]bool, error) {
	if m.existsMultiFn != nil {
		return m.existsMultiFn(ctx, keys)
	}
	out := make([]bool, len(keys))
	for i, k := range keys {
		_, out[i] = m.hashes[k]
	}
	return out, nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	delete(m.hashes, key)
	return nil
}

func (m *memStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range m.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys))) // callers must not rely on SCAN order
	return keys, nil
}

func newTestRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	ms := &memStore{hashes: map[string]map[string]string{}}
	return New(ms, "rr:"), ms
}

func seed(t *testing.T, repo *Repo, reviews ...*domreview.Review) {
	t.Helper()
	if _, err := repo.UpsertBatch(context.Background(), reviews); err != nil {
		t.Fatalf("seed: %v", err)
	}
}
