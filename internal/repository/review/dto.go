package review

import (
	"fmt"
	"strconv"

	domreview "github.com/kailas-cloud/reviewrank/internal/domain/review"
)

// Hash field names.
const (
	fieldID                   = "id"
	fieldAppID                = "app_id"
	fieldAuthorID             = "author_id"
	fieldLanguage             = "language"
	fieldContent              = "content"
	fieldPositive             = "positive"
	fieldTimestampCreated     = "timestamp_created"
	fieldVotesUp              = "votes_up"
	fieldVotesFunny           = "votes_funny"
	fieldSteamPurchase        = "steam_purchase"
	fieldReceivedForFree      = "received_for_free"
	fieldEarlyAccess          = "written_during_early_access"
	fieldAuthorGamesOwned     = "author_games_owned"
	fieldAuthorTotalReviews   = "author_total_reviews"
	fieldAuthorPlaytime       = "author_playtime_forever"
	fieldAuthorPlaytimeRecent = "author_playtime_last_two_weeks"
	fieldAuthorPlaytimeReview = "author_playtime_at_review"
)

// reviewToHash converts a domain Review to a map for HSET.
// Relevance and ScoringMethod are per-query and never stored.
func reviewToHash(r *domreview.Review) map[string]string {
	return map[string]string{
		fieldID:                   r.ID,
		fieldAppID:                r.AppID,
		fieldAuthorID:             r.AuthorID,
		fieldLanguage:             r.Language,
		fieldContent:              r.Content,
		fieldPositive:             formatBool(r.Positive),
		fieldTimestampCreated:     strconv.FormatInt(r.TimestampCreated, 10),
		fieldVotesUp:              strconv.Itoa(r.VotesUp),
		fieldVotesFunny:           strconv.Itoa(r.VotesFunny),
		fieldSteamPurchase:        formatBool(r.SteamPurchase),
		fieldReceivedForFree:      formatBool(r.ReceivedForFree),
		fieldEarlyAccess:          formatBool(r.WrittenDuringEarlyAccess),
		fieldAuthorGamesOwned:     strconv.Itoa(r.Author.GamesOwned),
		fieldAuthorTotalReviews:   strconv.Itoa(r.Author.TotalReviews),
		fieldAuthorPlaytime:       strconv.Itoa(r.Author.PlaytimeForever),
		fieldAuthorPlaytimeRecent: strconv.Itoa(r.Author.PlaytimeLastTwoWeeks),
		fieldAuthorPlaytimeReview: strconv.Itoa(r.Author.PlaytimeAtReview),
	}
}

// reviewFromHash hydrates a Review from an HGETALL result map.
// Missing numeric fields read as zero.
func reviewFromHash(m map[string]string) (*domreview.Review, error) {
	id := m[fieldID]
	if id == "" {
		return nil, fmt.Errorf("hash has no %s field", fieldID)
	}

	p := parser{m: m}
	r := &domreview.Review{
		ID:                       id,
		AppID:                    m[fieldAppID],
		AuthorID:                 m[fieldAuthorID],
		Language:                 m[fieldLanguage],
		Content:                  m[fieldContent],
		Positive:                 m[fieldPositive] == "1",
		TimestampCreated:         p.int64(fieldTimestampCreated),
		VotesUp:                  p.int(fieldVotesUp),
		VotesFunny:               p.int(fieldVotesFunny),
		SteamPurchase:            m[fieldSteamPurchase] == "1",
		ReceivedForFree:          m[fieldReceivedForFree] == "1",
		WrittenDuringEarlyAccess: m[fieldEarlyAccess] == "1",
		Author: domreview.Author{
			GamesOwned:           p.int(fieldAuthorGamesOwned),
			TotalReviews:         p.int(fieldAuthorTotalReviews),
			PlaytimeForever:      p.int(fieldAuthorPlaytime),
			PlaytimeLastTwoWeeks: p.int(fieldAuthorPlaytimeRecent),
			PlaytimeAtReview:     p.int(fieldAuthorPlaytimeReview),
		},
	}
	if p.err != nil {
		return nil, fmt.Errorf("review %s: %w", id, p.err)
	}
	return r, nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// parser keeps the first numeric parse error.
type parser struct {
	m   map[string]string
	err error
}

func (p *parser) int64(field string) int64 {
	s := p.m[field]
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", field, err)
	}
	return v
}

func (p *parser) int(field string) int {
	return int(p.int64(field))
}
