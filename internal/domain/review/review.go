package review

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Review field limits.
const (
	MaxIDLength    = 64
	MaxContentSize = 32768 // 32KB
)

// Author holds the reviewer's account statistics at ingestion time.
type Author struct {
	GamesOwned           int `json:"games_owned"`
	TotalReviews         int `json:"total_reviews"`
	PlaytimeForever      int `json:"playtime_forever"`
	PlaytimeLastTwoWeeks int `json:"playtime_last_two_weeks"`
	PlaytimeAtReview     int `json:"playtime_at_review"`
}

// Review is one user review. Content is the only field inspected by ranking;
// everything else is carried through unchanged. Relevance and ScoringMethod
// are written by the ranker.
type Review struct {
	ID                       string
	AppID                    string
	AuthorID                 string
	Language                 string
	Content                  string
	Positive                 bool
	TimestampCreated         int64 // unix seconds
	VotesUp                  int
	VotesFunny               int
	SteamPurchase            bool
	ReceivedForFree          bool
	WrittenDuringEarlyAccess bool
	Author                   Author

	Relevance     float64
	ScoringMethod method.Method
}

// Validate checks the identity and content constraints for ingestion.
// Empty content is allowed: it ranks as an empty text.
func (r *Review) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("review ID is required")
	}
	if len(r.ID) > MaxIDLength {
		return fmt.Errorf("review ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(r.ID) {
		return fmt.Errorf("review ID must be alphanumeric with underscores and hyphens")
	}
	if len(r.Content) > MaxContentSize {
		return fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	return nil
}

// Annotate records a relevance score and the method that produced it.
func (r *Review) Annotate(score float64, m method.Method) {
	r.Relevance = score
	r.ScoringMethod = m
}
