// Package ranking scores reviews against a free-text query and orders them by relevance.
package ranking

import (
	"context"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
)

// Doc is one scoring input. Key identifies the document across calls and may be empty.
type Doc struct {
	Key     string
	Content string
}

// Scorer computes one relevance score in [0, MaxScore] per document.
// The returned slice has the same length and order as docs.
type Scorer interface {
	Method() method.Method
	Score(ctx context.Context, query string, docs []Doc) []float64
}
