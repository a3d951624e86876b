package reviewrank

import (
	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
)

// Method selects a relevance scoring strategy.
type Method string

// Scoring methods. Unknown values fall back to MethodTFIDF.
const (
	MethodTFIDF    Method = Method(method.TFIDF)
	MethodJaccard  Method = Method(method.Jaccard)
	MethodCosine   Method = Method(method.Cosine)
	MethodWord2Vec Method = Method(method.Word2Vec)
)

// Sentiment filters reviews by recommendation.
type Sentiment string

// Sentiment filter values.
const (
	SentimentAll      Sentiment = Sentiment(domreview.SentimentAll)
	SentimentPositive Sentiment = Sentiment(domreview.SentimentPositive)
	SentimentNegative Sentiment = Sentiment(domreview.SentimentNegative)
)

// Author holds the reviewer's account statistics.
type Author struct {
	GamesOwned           int
	TotalReviews         int
	PlaytimeForever      int
	PlaytimeLastTwoWeeks int
	PlaytimeAtReview     int
}

// Review is a user review. Relevance and ScoringMethod are filled by ranking
// and ignored on upsert.
type Review struct {
	ID                       string
	AppID                    string
	AuthorID                 string
	Language                 string
	Content                  string
	Positive                 bool
	TimestampCreated         int64
	VotesUp                  int
	VotesFunny               int
	SteamPurchase            bool
	ReceivedForFree          bool
	WrittenDuringEarlyAccess bool
	Author                   Author

	Relevance     float64
	ScoringMethod Method
}

// SearchQuery describes one page of a ranked search. Zero values mean
// page 1, 20 per page, all sentiments and the client's default method.
type SearchQuery struct {
	Keyword   string
	Sentiment Sentiment
	Page      int
	PerPage   int
	Method    Method
}

// SearchPage is one page of a ranked search.
type SearchPage struct {
	Reviews    []Review
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	// Method is empty when the keyword was empty and nothing was ranked.
	Method Method
}

// ClusterQuery selects the reviews to cluster. Zero K uses the client's
// cluster count; zero Limit clusters up to 1000 reviews.
type ClusterQuery struct {
	K         int
	Limit     int
	Keyword   string
	Sentiment Sentiment
}

// AppCount is the number of clustered reviews of one app.
type AppCount struct {
	AppID string
	Count int
}

// Cluster is one group of similar reviews.
type Cluster struct {
	ID       int
	Size     int
	TopTerms []string
	Samples  []Review
	TopApps  []AppCount
}

// Clustering is the outcome of a k-means run over stored reviews.
type Clustering struct {
	Reviews  int
	Clusters []Cluster
}

// BatchResult is the outcome of one review in a batch upsert.
type BatchResult struct {
	ID      string
	OK      bool
	Created bool
	Err     error
}

// BatchResponse summarizes a batch upsert.
type BatchResponse struct {
	Results   []BatchResult
	Succeeded int
	Failed    int
}

func toInternalReview(r *Review) *domreview.Review {
	return &domreview.Review{
		ID:                       r.ID,
		AppID:                    r.AppID,
		AuthorID:                 r.AuthorID,
		Language:                 r.Language,
		Content:                  r.Content,
		Positive:                 r.Positive,
		TimestampCreated:         r.TimestampCreated,
		VotesUp:                  r.VotesUp,
		VotesFunny:               r.VotesFunny,
		SteamPurchase:            r.SteamPurchase,
		ReceivedForFree:          r.ReceivedForFree,
		WrittenDuringEarlyAccess: r.WrittenDuringEarlyAccess,
		Author:                   domreview.Author(r.Author),
	}
}

func fromInternalReview(r *domreview.Review) Review {
	return Review{
		ID:                       r.ID,
		AppID:                    r.AppID,
		AuthorID:                 r.AuthorID,
		Language:                 r.Language,
		Content:                  r.Content,
		Positive:                 r.Positive,
		TimestampCreated:         r.TimestampCreated,
		VotesUp:                  r.VotesUp,
		VotesFunny:               r.VotesFunny,
		SteamPurchase:            r.SteamPurchase,
		ReceivedForFree:          r.ReceivedForFree,
		WrittenDuringEarlyAccess: r.WrittenDuringEarlyAccess,
		Author:                   Author(r.Author),
		Relevance:                r.Relevance,
		ScoringMethod:            Method(r.ScoringMethod),
	}
}

func fromInternalBatch(results []dombatch.Result) BatchResponse {
	resp := BatchResponse{Results: make([]BatchResult, len(results))}
	for i, r := range results {
		resp.Results[i] = BatchResult{
			ID:      r.ID(),
			OK:      r.OK(),
			Created: r.Status() == dombatch.StatusCreated,
			Err:     r.Err(),
		}
		if r.OK() {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}
