package review

import (
	"fmt"
	"strings"
)

// Sentiment selects reviews by their recommendation flag.
type Sentiment string

// Sentiment filter values.
const (
	SentimentAll      Sentiment = "all"
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment validates a filter value. Empty means SentimentAll.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(s) {
	case "", SentimentAll:
		return SentimentAll, nil
	case SentimentPositive, SentimentNegative:
		return Sentiment(s), nil
	default:
		return "", fmt.Errorf("invalid filter %q (want all, positive or negative)", s)
	}
}

// Matches reports whether the review passes the filter.
func (s Sentiment) Matches(r *Review) bool {
	switch s {
	case SentimentPositive:
		return r.Positive
	case SentimentNegative:
		return !r.Positive
	default:
		return true
	}
}

// Filter narrows a review listing.
type Filter struct {
	Sentiment Sentiment
	Keyword   string // case-insensitive substring of content; empty matches all
	Limit     int    // 0 = unlimited
}

// Matches reports whether r passes the sentiment and keyword parts of f.
// Limit is not applied.
func (f Filter) Matches(r *Review) bool {
	if !f.Sentiment.Matches(r) {
		return false
	}
	kw := strings.ToLower(strings.TrimSpace(f.Keyword))
	return kw == "" || strings.Contains(strings.ToLower(r.Content), kw)
}
