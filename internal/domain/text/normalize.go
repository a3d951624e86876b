// Package text holds the normalization and tokenization shared by every scorer.
package text

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, trims it and collapses internal whitespace runs to a
// single space. The empty string maps to itself.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Fields splits the normalized text on whitespace.
func Fields(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// WordTokens returns runs of letters, digits and underscores, lowercased.
func WordTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})
}

// AlnumTokens returns runs of letters and digits, lowercased.
func AlnumTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Set collapses tokens into a set.
func Set(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
