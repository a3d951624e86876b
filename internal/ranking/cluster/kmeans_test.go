package cluster

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/reviewrank/internal/ranking/tfidf"
)

// dense is a Rows backed by plain slices; zero weights are skipped.
type dense struct {
	vocab []string
	data  [][]float64
}

func (d dense) Rows() int            { return len(d.data) }
func (d dense) Vocabulary() []string { return d.vocab }
func (d dense) EachNonZero(i int, fn func(int, float64)) {
	for t, w := range d.data[i] {
		if w != 0 {
			fn(t, w)
		}
	}
}

func twoGroups() dense {
	return dense{
		vocab: []string{"aim", "gun", "logic", "puzzle"},
		data: [][]float64{
			{1, 0.9, 0, 0},
			{0, 0, 1, 1},
			{0.8, 1, 0, 0},
			{0, 0, 0.9, 1},
			{1, 1, 0, 0.1},
		},
	}
}

func TestKMeans_SeparatesGroups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 2
	res := KMeans(twoGroups(), cfg)

	l := res.Labels
	if len(l) != 5 {
		t.Fatalf("labels = %v", l)
	}
	if l[0] != l[2] || l[0] != l[4] {
		t.Errorf("shooter rows split: %v", l)
	}
	if l[1] != l[3] {
		t.Errorf("puzzle rows split: %v", l)
	}
	if l[0] == l[1] {
		t.Errorf("groups merged: %v", l)
	}
	if res.Inertia <= 0 {
		t.Errorf("inertia = %v, want > 0", res.Inertia)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 3
	a := KMeans(twoGroups(), cfg)
	b := KMeans(twoGroups(), cfg)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("runs differ:\n%+v\n%+v", a, b)
	}
}

func TestKMeans_KCappedAtRows(t *testing.T) {
	d := dense{vocab: []string{"a", "b"}, data: [][]float64{{1, 0}, {0, 1}}}
	res := KMeans(d, Config{K: 10})
	if len(res.Centroids) != 2 {
		t.Fatalf("centroids = %d, want 2", len(res.Centroids))
	}
	if res.Labels[0] == res.Labels[1] {
		t.Errorf("orthogonal rows share a cluster: %v", res.Labels)
	}
	if res.Inertia != 0 {
		t.Errorf("inertia = %v, want 0", res.Inertia)
	}
}

func TestKMeans_Empty(t *testing.T) {
	res := KMeans(dense{}, DefaultConfig())
	if res.Labels != nil || res.Centroids != nil {
		t.Errorf("expected zero result, got %+v", res)
	}
}

func TestKMeans_IdenticalRows(t *testing.T) {
	row := []float64{0.6, 0.8}
	d := dense{vocab: []string{"a", "b"}, data: [][]float64{row, row, row, row}}
	res := KMeans(d, Config{K: 3, Seed: 7})

	if len(res.Centroids) != 3 {
		t.Fatalf("centroids = %d, want 3", len(res.Centroids))
	}
	for i, l := range res.Labels {
		if l < 0 || l >= 3 {
			t.Errorf("row %d: label %d out of range", i, l)
		}
	}
	if res.Inertia > 1e-12 {
		t.Errorf("inertia = %v, want 0", res.Inertia)
	}
}

func TestKMeans_TFIDFMatrix(t *testing.T) {
	cfg := tfidf.DefaultConfig()
	cfg.NGramMax = 1
	cfg.MaxDF = 1
	m, err := tfidf.New(cfg).FitTransform([]string{
		"shooter aim guns",
		"relaxing puzzle logic",
		"shooter guns recoil",
		"puzzle logic hints",
	})
	if err != nil {
		t.Fatalf("FitTransform: %v", err)
	}

	res := KMeans(m, Config{K: 2})
	if res.Labels[0] != res.Labels[2] || res.Labels[1] != res.Labels[3] || res.Labels[0] == res.Labels[1] {
		t.Fatalf("labels = %v", res.Labels)
	}
	top := TopTerms(res.Centroids[res.Labels[1]], m.Vocabulary(), 2)
	if !reflect.DeepEqual(top, []string{"logic", "puzzl"}) && !reflect.DeepEqual(top, []string{"logic", "puzzle"}) {
		t.Errorf("puzzle cluster top terms = %v", top)
	}
}

func TestTopTerms(t *testing.T) {
	vocab := []string{"a", "b", "c", "d"}
	tests := []struct {
		name     string
		centroid []float64
		n        int
		want     []string
	}{
		{"by weight", []float64{0.1, 0.5, 0.3, 0}, 2, []string{"b", "c"}},
		{"ties by term", []float64{0.2, 0.2, 0.2, 0.2}, 3, []string{"a", "b", "c"}},
		{"zero weights skipped", []float64{0, 0.4, 0, 0}, 10, []string{"b"}},
		{"all zero", []float64{0, 0, 0, 0}, 3, []string{}},
	}
	for _, tc := range tests {
		if got := TopTerms(tc.centroid, vocab, tc.n); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
