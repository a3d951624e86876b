package method

import "strings"

// Method identifies a relevance scoring strategy.
type Method string

// Scoring method constants.
const (
	// TFIDF is TF-IDF cosine similarity blended with a term-overlap bonus.
	TFIDF   Method = "tfidf"
	Jaccard Method = "jaccard"
	// Cosine is plain TF-IDF cosine similarity without post-hoc boosting.
	Cosine Method = "cosine"
	// Word2Vec compares mean word-embedding vectors trained on the corpus.
	Word2Vec Method = "word2vec"
)

// Default is used when no method (or an unknown one) is requested.
const Default = TFIDF

// IsValid checks if the method is one of the supported values.
func (m Method) IsValid() bool {
	return m == TFIDF || m == Jaccard || m == Cosine || m == Word2Vec
}

// Parse maps a user-supplied selector to a Method.
// Matching is case-insensitive; unknown or empty values fall back to Default.
func Parse(s string) Method {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return Default
	}
	return m
}

// All returns every supported method in a stable order.
func All() []Method {
	return []Method{TFIDF, Jaccard, Cosine, Word2Vec}
}
