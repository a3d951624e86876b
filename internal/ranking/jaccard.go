package ranking

import (
	"context"

	"github.com/RoaringBitmap/roaring"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
	"github.com/kailas-cloud/reviewrank/internal/domain/text"
)

// Jaccard scores the overlap of whitespace token sets: |A∩B| / |A∪B| × 100.
type Jaccard struct{}

// NewJaccard creates a Jaccard scorer.
func NewJaccard() *Jaccard { return &Jaccard{} }

// Method implements Scorer.
func (*Jaccard) Method() method.Method { return method.Jaccard }

// Score implements Scorer.
func (*Jaccard) Score(_ context.Context, query string, docs []Doc) []float64 {
	ids := newInterner()
	q := ids.bitmap(text.Fields(text.Normalize(query)))

	scores := make([]float64, len(docs))
	for i, d := range docs {
		scores[i] = jaccard(q, ids.bitmap(text.Fields(text.Normalize(d.Content))))
	}
	return scores
}

// JaccardSimilarity returns the Jaccard coefficient of two texts in [0, 1].
func JaccardSimilarity(a, b string) float64 {
	ids := newInterner()
	return jaccard(
		ids.bitmap(text.Fields(text.Normalize(a))),
		ids.bitmap(text.Fields(text.Normalize(b))),
	) / MaxScore
}

func jaccard(a, b *roaring.Bitmap) float64 {
	union := a.OrCardinality(b)
	if union == 0 {
		return 0
	}
	return Clamp(float64(a.AndCardinality(b)) / float64(union) * MaxScore)
}

// interner assigns dense ids to tokens so sets can be held as bitmaps.
type interner struct {
	ids map[string]uint32
}

func newInterner() *interner {
	return &interner{ids: make(map[string]uint32)}
}

func (in *interner) bitmap(tokens []string) *roaring.Bitmap {
	bm := roaring.NewBitmap()
	for _, t := range tokens {
		id, ok := in.ids[t]
		if !ok {
			id = uint32(len(in.ids))
			in.ids[t] = id
		}
		bm.Add(id)
	}
	return bm
}
