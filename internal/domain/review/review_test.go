package review

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/reviewrank/internal/domain/search/method"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       Review
		wantErr bool
	}{
		{"valid", Review{ID: "r-1", Content: "great game"}, false},
		{"empty content allowed", Review{ID: "r_2"}, false},
		{"missing id", Review{Content: "x"}, true},
		{"bad chars", Review{ID: "r 1", Content: "x"}, true},
		{"id too long", Review{ID: strings.Repeat("a", MaxIDLength+1)}, true},
		{"content too large", Review{ID: "r", Content: strings.Repeat("x", MaxContentSize+1)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.r.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	r := Review{ID: "1", Content: "fast"}
	r.Annotate(42.5, method.Jaccard)
	if r.Relevance != 42.5 || r.ScoringMethod != method.Jaccard {
		t.Errorf("Annotate() = (%f, %q)", r.Relevance, r.ScoringMethod)
	}
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		in      string
		want    Sentiment
		wantErr bool
	}{
		{"", SentimentAll, false},
		{"all", SentimentAll, false},
		{"positive", SentimentPositive, false},
		{"negative", SentimentNegative, false},
		{"Positive", "", true},
		{"mixed", "", true},
	}
	for _, tc := range tests {
		got, err := ParseSentiment(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseSentiment(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSentiment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSentimentMatches(t *testing.T) {
	pos := &Review{Positive: true}
	neg := &Review{Positive: false}

	if !SentimentAll.Matches(pos) || !SentimentAll.Matches(neg) {
		t.Error("all should match everything")
	}
	if !SentimentPositive.Matches(pos) || SentimentPositive.Matches(neg) {
		t.Error("positive filter mismatch")
	}
	if SentimentNegative.Matches(pos) || !SentimentNegative.Matches(neg) {
		t.Error("negative filter mismatch")
	}
}

func TestFilterMatches(t *testing.T) {
	r := &Review{Content: "Great Shooter", Positive: true}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"keyword any case", Filter{Keyword: " shooter "}, true},
		{"keyword miss", Filter{Keyword: "puzzle"}, false},
		{"sentiment miss", Filter{Sentiment: SentimentNegative, Keyword: "great"}, false},
		{"both", Filter{Sentiment: SentimentPositive, Keyword: "GREAT"}, true},
	}
	for _, tc := range tests {
		if got := tc.filter.Matches(r); got != tc.want {
			t.Errorf("%s: Matches = %v, want %v", tc.name, got, tc.want)
		}
	}
}
