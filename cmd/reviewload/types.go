package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	reviewrank "github.com/kailas-cloud/reviewrank/pkg/sdk"
)

// steamReview is one line of a Steam appreviews export.
type steamReview struct {
	RecommendationID json.Number `json:"recommendationid"`
	AppID            json.Number `json:"app_id"`
	Language         string      `json:"language"`
	Review           *string     `json:"review"`
	TimestampCreated int64       `json:"timestamp_created"`
	VotedUp          flexBool    `json:"voted_up"`
	VotesUp          int         `json:"votes_up"`
	VotesFunny       int         `json:"votes_funny"`
	SteamPurchase    flexBool    `json:"steam_purchase"`
	ReceivedForFree  flexBool    `json:"received_for_free"`
	EarlyAccess      flexBool    `json:"written_during_early_access"`
	Author           steamAuthor `json:"author"`
}

type steamAuthor struct {
	SteamID              json.Number `json:"steamid"`
	NumGamesOwned        int         `json:"num_games_owned"`
	NumReviews           int         `json:"num_reviews"`
	PlaytimeForever      int         `json:"playtime_forever"`
	PlaytimeLastTwoWeeks int         `json:"playtime_last_two_weeks"`
	PlaytimeAtReview     int         `json:"playtime_at_review"`
}

// flexBool accepts JSON booleans, numbers and the strings
// "true"/"false"/"1"/"0"/"t"/"y"/"yes". null is false.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("flexBool: %w", err)
		}
		s = unq
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t", "y", "yes":
		*b = true
	case "false", "0", "f", "n", "no", "":
		*b = false
	default:
		return fmt.Errorf("flexBool: unexpected value %s", data)
	}
	return nil
}

// toReview maps an export row to an SDK review. A row without an id is
// rejected; a missing review text becomes empty content.
func (s *steamReview) toReview() (reviewrank.Review, bool) {
	id := s.RecommendationID.String()
	if id == "" {
		return reviewrank.Review{}, false
	}
	var content string
	if s.Review != nil {
		content = *s.Review
	}
	return reviewrank.Review{
		ID:                       id,
		AppID:                    s.AppID.String(),
		AuthorID:                 s.Author.SteamID.String(),
		Language:                 s.Language,
		Content:                  content,
		Positive:                 bool(s.VotedUp),
		TimestampCreated:         s.TimestampCreated,
		VotesUp:                  s.VotesUp,
		VotesFunny:               s.VotesFunny,
		SteamPurchase:            bool(s.SteamPurchase),
		ReceivedForFree:          bool(s.ReceivedForFree),
		WrittenDuringEarlyAccess: bool(s.EarlyAccess),
		Author: reviewrank.Author{
			GamesOwned:           s.Author.NumGamesOwned,
			TotalReviews:         s.Author.NumReviews,
			PlaytimeForever:      s.Author.PlaytimeForever,
			PlaytimeLastTwoWeeks: s.Author.PlaytimeLastTwoWeeks,
			PlaytimeAtReview:     s.Author.PlaytimeAtReview,
		},
	}, true
}
