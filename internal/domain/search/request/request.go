package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
)

// Search parameter limits.
const (
	// MaxKeywordLength is the maximum allowed keyword length.
	MaxKeywordLength = 512
	DefaultPerPage   = 20
	MaxPerPage       = 100
)

// Request is a validated review search.
type Request struct {
	keyword   string
	sentiment review.Sentiment
	page      int
	perPage   int
	scoring   method.Method
}

// New validates and normalizes search parameters.
// Defaults: page=1, perPage=20, method=tfidf. perPage is clamped to MaxPerPage.
// An empty keyword is valid and means "no ranking".
func New(keyword string, sentiment review.Sentiment, page, perPage int, m method.Method) (Request, error) {
	if len(keyword) > MaxKeywordLength {
		return Request{}, fmt.Errorf("keyword too long (max %d chars)", MaxKeywordLength)
	}
	if sentiment == "" {
		sentiment = review.SentimentAll
	}
	if _, err := review.ParseSentiment(string(sentiment)); err != nil {
		return Request{}, err
	}
	if page < 0 {
		return Request{}, fmt.Errorf("page must be positive")
	}
	if page == 0 {
		page = 1
	}
	if perPage < 0 {
		return Request{}, fmt.Errorf("per_page must be positive")
	}
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if !m.IsValid() {
		m = method.Default
	}

	return Request{
		keyword:   strings.TrimSpace(keyword),
		sentiment: sentiment,
		page:      page,
		perPage:   perPage,
		scoring:   m,
	}, nil
}

// Keyword returns the trimmed search text.
func (r *Request) Keyword() string { return r.keyword }

// Sentiment returns the recommendation filter.
func (r *Request) Sentiment() review.Sentiment { return r.sentiment }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PerPage returns the page size.
func (r *Request) PerPage() int { return r.perPage }

// Method returns the scoring strategy.
func (r *Request) Method() method.Method { return r.scoring }
