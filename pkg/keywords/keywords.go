// Package keywords normalizes free text into comparable keyword sets.
//
// Listings mix Latin and Japanese text, so the allowed character ranges
// cover word characters plus Hiragana, Katakana and CJK ideographs. The
// search engine and the analytics engine must share this exact definition
// so keyword statistics stay consistent with search matching.
package keywords

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var disallowedPattern = regexp.MustCompile(`[^\w\p{Hiragana}\p{Katakana}\p{Han}\s]+`)

// Extract lowercases the input, strips characters outside the allowed
// ranges, splits on whitespace and drops tokens of length <= 1. The
// returned tokens are deduplicated in first-seen order.
func Extract(text string) []string {
	cleaned := disallowedPattern.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, token := range fields {
		if utf8.RuneCountInString(token) <= 1 {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}

	return tokens
}

// Jaccard returns the Jaccard similarity of two token sets.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}

	setB := make(map[string]struct{}, len(b))
	for _, token := range b {
		setB[token] = struct{}{}
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// IsSuperset reports whether set a contains every token of set b and at
// least one more.
func IsSuperset(a, b []string) bool {
	if len(b) == 0 || len(a) <= len(b) {
		return false
	}

	setA := make(map[string]struct{}, len(a))
	for _, token := range a {
		setA[token] = struct{}{}
	}

	for _, token := range b {
		if _, ok := setA[token]; !ok {
			return false
		}
	}
	return true
}
