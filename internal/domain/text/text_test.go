package text

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"Great Game", "great game"},
		{"  Fast \t\n  SHOOTER  ", "fast shooter"},
		{"already normal", "already normal"},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := "  Mixed   CASE\ttext "
	once := Normalize(in)
	if Normalize(once) != once {
		t.Errorf("Normalize is not idempotent: %q -> %q", once, Normalize(once))
	}
}

func TestFields_KeepsPunctuation(t *testing.T) {
	got := Fields("Fast shooter, great graphics")
	want := []string{"fast", "shooter,", "great", "graphics"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() = %v, want %v", got, want)
	}
}

func TestWordTokens(t *testing.T) {
	got := WordTokens("CS2 is great_ish! 10/10")
	want := []string{"cs2", "is", "great_ish", "10", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WordTokens() = %v, want %v", got, want)
	}
}

func TestAlnumTokens(t *testing.T) {
	got := AlnumTokens("great_ish, café!")
	want := []string{"great", "ish", "café"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AlnumTokens() = %v, want %v", got, want)
	}
}

func TestAnalyzer(t *testing.T) {
	tests := []struct {
		name string
		cfg  AnalyzerConfig
		in   string
		want []string
	}{
		{"no filters", AnalyzerConfig{}, "The games are fun", []string{"the", "games", "are", "fun"}},
		{"stopwords", AnalyzerConfig{EnableStopwords: true}, "The games are fun", []string{"games", "fun"}},
		{"min length", AnalyzerConfig{MinTokenLength: 4}, "a big world", []string{"world"}},
		{"stemming", AnalyzerConfig{EnableStemming: true}, "running games", []string{"run", "game"}},
		{"accents kept", AnalyzerConfig{}, "Café naïve", []string{"café", "naïve"}},
		{"accents folded", AnalyzerConfig{StripAccents: true}, "Café naïve Øresund", []string{"cafe", "naive", "øresund"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewAnalyzer(tc.cfg).Analyze(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Analyze(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFoldAccents(t *testing.T) {
	tests := []struct{ in, want string }{
		{"café", "cafe"},
		{"Crème Brûlée", "Creme Brulee"},
		{"ﬁnal", "final"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := FoldAccents(tc.in); got != tc.want {
			t.Errorf("FoldAccents(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
