// Package cluster groups sparse TF-IDF rows with k-means.
package cluster

import (
	"math"
	"math/rand/v2"
	"sort"
)

// MaxK is the largest cluster count a caller may request.
const MaxK = 20

// Config controls a k-means run.
type Config struct {
	K       int
	MaxIter int
	// Tol stops iterating once the summed squared centroid shift falls below it.
	Tol  float64
	Seed uint64
}

// DefaultConfig returns five clusters with a fixed seed.
func DefaultConfig() Config {
	return Config{K: 5, MaxIter: 300, Tol: 1e-4, Seed: 42}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.K <= 0 {
		c.K = d.K
	}
	if c.MaxIter <= 0 {
		c.MaxIter = d.MaxIter
	}
	if c.Tol < 0 {
		c.Tol = d.Tol
	}
	return c
}

// Rows is a sparse row-major matrix. *tfidf.Matrix satisfies it.
type Rows interface {
	Rows() int
	Vocabulary() []string
	EachNonZero(i int, fn func(term int, weight float64))
}

// Result is a fitted clustering.
type Result struct {
	// Labels holds the cluster index of every row.
	Labels []int
	// Centroids are dense, one weight per vocabulary term.
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

type sparse struct {
	terms   []int
	weights []float64
	sqNorm  float64
}

// KMeans clusters the rows of m with k-means++ seeding followed by Lloyd
// iterations. K is capped at the row count. The same rows and Config always
// produce the same Result.
func KMeans(m Rows, cfg Config) Result {
	cfg = cfg.withDefaults()
	n := m.Rows()
	if n == 0 {
		return Result{}
	}
	k := min(cfg.K, n)
	dim := len(m.Vocabulary())

	rows := make([]sparse, n)
	for i := range rows {
		r := &rows[i]
		m.EachNonZero(i, func(term int, w float64) {
			r.terms = append(r.terms, term)
			r.weights = append(r.weights, w)
			r.sqNorm += w * w
		})
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	centroids := seed(rows, k, dim, rng)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	res := Result{Labels: labels, Centroids: centroids}

	dists := make([]float64, n)
	for res.Iterations < cfg.MaxIter {
		res.Iterations++

		changed := false
		sqNorms := centroidNorms(centroids)
		for i, r := range rows {
			best, bestDist := nearest(r, centroids, sqNorms)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
			dists[i] = bestDist
		}
		if !changed {
			break
		}

		shift := recompute(rows, labels, dists, centroids)
		if shift <= cfg.Tol {
			break
		}
	}

	sqNorms := centroidNorms(centroids)
	for i, r := range rows {
		labels[i], dists[i] = nearest(r, centroids, sqNorms)
		res.Inertia += dists[i]
	}
	return res
}

// seed picks k initial centroids with k-means++.
func seed(rows []sparse, k, dim int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, densify(rows[rng.IntN(len(rows))], dim))

	d2 := make([]float64, len(rows))
	for i := range d2 {
		d2[i] = math.Inf(1)
	}
	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		lastNorm := dot(last, last)
		var total float64
		for i, r := range rows {
			d2[i] = math.Min(d2[i], distance(r, last, lastNorm))
			total += d2[i]
		}

		pick := rng.IntN(len(rows))
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range d2 {
				target -= d
				if target <= 0 {
					pick = i
					break
				}
			}
		}
		centroids = append(centroids, densify(rows[pick], dim))
	}
	return centroids
}

// recompute moves every centroid to the mean of its rows and returns the
// summed squared shift. An empty cluster takes over the row farthest from
// its current centroid.
func recompute(rows []sparse, labels []int, dists []float64, centroids [][]float64) float64 {
	dim := len(centroids[0])
	next := make([][]float64, len(centroids))
	sizes := make([]int, len(centroids))
	for c := range next {
		next[c] = make([]float64, dim)
	}
	for i, r := range rows {
		c := labels[i]
		sizes[c]++
		for j, t := range r.terms {
			next[c][t] += r.weights[j]
		}
	}

	taken := make(map[int]bool)
	for c := range next {
		if sizes[c] > 0 {
			continue
		}
		far := -1
		for i, d := range dists {
			if taken[i] || sizes[labels[i]] <= 1 {
				continue
			}
			if far < 0 || d > dists[far] {
				far = i
			}
		}
		if far < 0 {
			copy(next[c], centroids[c])
			sizes[c] = 1
			continue
		}
		taken[far] = true
		old := labels[far]
		sizes[old]--
		for j, t := range rows[far].terms {
			next[old][t] -= rows[far].weights[j]
		}
		labels[far] = c
		sizes[c] = 1
		for j, t := range rows[far].terms {
			next[c][t] += rows[far].weights[j]
		}
	}

	var shift float64
	for c := range next {
		inv := 1 / float64(sizes[c])
		for d := range next[c] {
			next[c][d] *= inv
			diff := next[c][d] - centroids[c][d]
			shift += diff * diff
		}
		centroids[c] = next[c]
	}
	return shift
}

// nearest returns the closest centroid to r and its squared distance.
// Ties go to the lower index.
func nearest(r sparse, centroids [][]float64, sqNorms []float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		d := distance(r, centroid, sqNorms[c])
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// distance is the squared Euclidean distance between a sparse row and a
// dense centroid with precomputed squared norm.
func distance(r sparse, centroid []float64, centroidSqNorm float64) float64 {
	var d float64
	for j, t := range r.terms {
		d += r.weights[j] * centroid[t]
	}
	return math.Max(r.sqNorm-2*d+centroidSqNorm, 0)
}

func centroidNorms(centroids [][]float64) []float64 {
	out := make([]float64, len(centroids))
	for c, v := range centroids {
		out[c] = dot(v, v)
	}
	return out
}

func densify(r sparse, dim int) []float64 {
	v := make([]float64, dim)
	for j, t := range r.terms {
		v[t] = r.weights[j]
	}
	return v
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// TopTerms returns up to n vocabulary terms with the largest positive centroid
// weight, heaviest first. Equal weights are ordered by term.
func TopTerms(centroid []float64, vocab []string, n int) []string {
	idx := make([]int, 0, len(centroid))
	for i, w := range centroid {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	sort.Slice(idx, func(a, b int) bool {
		wa, wb := centroid[idx[a]], centroid[idx[b]]
		if wa != wb {
			return wa > wb
		}
		return vocab[idx[a]] < vocab[idx[b]]
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = vocab[j]
	}
	return out
}
