package chi

import (
	"errors"

	"github.com/kailas-cloud/reviewrank/internal/domain"
	dombatch "github.com/kailas-cloud/reviewrank/internal/domain/batch"
	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
	searchuc "github.com/kailas-cloud/reviewrank/internal/usecase/search"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeReviewNotFound   ErrorCode = "review_not_found"
	ErrorCodeBatchTooLarge    ErrorCode = "batch_too_large"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// AuthorJSON is the wire form of domreview.Author.
type AuthorJSON struct {
	GamesOwned           int `json:"games_owned"`
	TotalReviews         int `json:"total_reviews"`
	PlaytimeForever      int `json:"playtime_forever"`
	PlaytimeLastTwoWeeks int `json:"playtime_last_two_weeks"`
	PlaytimeAtReview     int `json:"playtime_at_review"`
}

// ReviewJSON is the wire form of a review. Relevance and ScoringMethod are
// output-only and ignored on ingestion.
type ReviewJSON struct {
	ID                       string     `json:"id"`
	AppID                    string     `json:"app_id,omitempty"`
	AuthorID                 string     `json:"author_id,omitempty"`
	Language                 string     `json:"language,omitempty"`
	Review                   string     `json:"review"`
	VotedUp                  bool       `json:"voted_up"`
	TimestampCreated         int64      `json:"timestamp_created,omitempty"`
	VotesUp                  int        `json:"votes_up"`
	VotesFunny               int        `json:"votes_funny"`
	SteamPurchase            bool       `json:"steam_purchase"`
	ReceivedForFree          bool       `json:"received_for_free"`
	WrittenDuringEarlyAccess bool       `json:"written_during_early_access"`
	Author                   AuthorJSON `json:"author"`

	Relevance     *float64 `json:"relevance,omitempty"`
	ScoringMethod string   `json:"scoring_method,omitempty"`
}

// SearchResponse is one page of ranked reviews.
type SearchResponse struct {
	Items      []ReviewJSON `json:"items"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	Total      int          `json:"total"`
	TotalPages int          `json:"total_pages"`
	Method     string       `json:"method,omitempty"`
}

// BatchUpsertRequest is the POST /reviews body.
type BatchUpsertRequest struct {
	Items []ReviewJSON `json:"items"`
}

// BatchResultItem is the per-review outcome of a batch upsert.
type BatchResultItem struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// BatchUpsertResponse summarizes a batch upsert.
type BatchUpsertResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// CountResponse is the GET /reviews/count body.
type CountResponse struct {
	Filter  string `json:"filter"`
	Keyword string `json:"keyword,omitempty"`
	Count   int    `json:"count"`
}

// AppCountJSON is the number of clustered reviews of one app.
type AppCountJSON struct {
	AppID string `json:"app_id"`
	Count int    `json:"count"`
}

// ClusterJSON summarizes one review cluster.
type ClusterJSON struct {
	ID            int            `json:"cluster_id"`
	Size          int            `json:"size"`
	TopTerms      []string       `json:"top_terms"`
	SampleReviews []ReviewJSON   `json:"sample_reviews"`
	TopApps       []AppCountJSON `json:"top_apps"`
}

// ClustersResponse is the GET /reviews/clusters body.
type ClustersResponse struct {
	Reviews  int           `json:"reviews"`
	Clusters []ClusterJSON `json:"clusters"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func reviewFromJSON(in *ReviewJSON) *domreview.Review {
	return &domreview.Review{
		ID:                       in.ID,
		AppID:                    in.AppID,
		AuthorID:                 in.AuthorID,
		Language:                 in.Language,
		Content:                  in.Review,
		Positive:                 in.VotedUp,
		TimestampCreated:         in.TimestampCreated,
		VotesUp:                  in.VotesUp,
		VotesFunny:               in.VotesFunny,
		SteamPurchase:            in.SteamPurchase,
		ReceivedForFree:          in.ReceivedForFree,
		WrittenDuringEarlyAccess: in.WrittenDuringEarlyAccess,
		Author: domreview.Author{
			GamesOwned:           in.Author.GamesOwned,
			TotalReviews:         in.Author.TotalReviews,
			PlaytimeForever:      in.Author.PlaytimeForever,
			PlaytimeLastTwoWeeks: in.Author.PlaytimeLastTwoWeeks,
			PlaytimeAtReview:     in.Author.PlaytimeAtReview,
		},
	}
}

// reviewToJSON renders r. ranked controls whether relevance is emitted.
func reviewToJSON(r *domreview.Review, ranked bool) ReviewJSON {
	out := ReviewJSON{
		ID:                       r.ID,
		AppID:                    r.AppID,
		AuthorID:                 r.AuthorID,
		Language:                 r.Language,
		Review:                   r.Content,
		VotedUp:                  r.Positive,
		TimestampCreated:         r.TimestampCreated,
		VotesUp:                  r.VotesUp,
		VotesFunny:               r.VotesFunny,
		SteamPurchase:            r.SteamPurchase,
		ReceivedForFree:          r.ReceivedForFree,
		WrittenDuringEarlyAccess: r.WrittenDuringEarlyAccess,
		Author: AuthorJSON{
			GamesOwned:           r.Author.GamesOwned,
			TotalReviews:         r.Author.TotalReviews,
			PlaytimeForever:      r.Author.PlaytimeForever,
			PlaytimeLastTwoWeeks: r.Author.PlaytimeLastTwoWeeks,
			PlaytimeAtReview:     r.Author.PlaytimeAtReview,
		},
	}
	if ranked {
		rel := r.Relevance
		out.Relevance = &rel
		out.ScoringMethod = string(r.ScoringMethod)
	}
	return out
}

func searchResultToJSON(res searchuc.Result) SearchResponse {
	ranked := res.Method != ""
	items := make([]ReviewJSON, len(res.Items))
	for i, r := range res.Items {
		items[i] = reviewToJSON(r, ranked)
	}
	return SearchResponse{
		Items:      items,
		Page:       res.Page.Page,
		PerPage:    res.Page.PerPage,
		Total:      res.Page.Total,
		TotalPages: res.Page.TotalPages,
		Method:     string(res.Method),
	}
}

func batchResultToJSON(r dombatch.Result) BatchResultItem {
	item := BatchResultItem{ID: r.ID(), Status: string(r.Status())}
	switch err := r.Err(); {
	case err == nil:
	case errors.Is(err, domain.ErrInvalidReview):
		// validation messages carry no internals
		item.Error = err.Error()
	default:
		item.Error = safeDomainMessage(err)
	}
	return item
}
