package text

import (
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AnalyzerConfig controls the token filter pipeline.
type AnalyzerConfig struct {
	MinTokenLength  int  // tokens shorter than this are dropped (0 keeps all)
	StripAccents    bool // fold "café" to "cafe" before tokenizing
	EnableStopwords bool // drop English stop words
	EnableStemming  bool // reduce tokens with the Snowball English stemmer
}

// Analyzer turns raw text into filtered word tokens.
type Analyzer struct {
	cfg AnalyzerConfig
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze tokenizes s with WordTokens and applies the configured filters in
// order: stop words, length, stemming. Accents are folded first when enabled.
func (a *Analyzer) Analyze(s string) []string {
	if a.cfg.StripAccents {
		s = FoldAccents(s)
	}
	return a.Filter(WordTokens(s))
}

// FoldAccents decomposes s (NFKD) and drops combining marks.
// Characters without a decomposition, such as "ø", are kept.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Filter applies the configured filters to already tokenized input.
func (a *Analyzer) Filter(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if a.cfg.EnableStopwords && IsStopword(t) {
			continue
		}
		if len([]rune(t)) < a.cfg.MinTokenLength {
			continue
		}
		if a.cfg.EnableStemming {
			t = snowballeng.Stem(t, false)
		}
		out = append(out, t)
	}
	return out
}
