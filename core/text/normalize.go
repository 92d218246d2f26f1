// Package text provides the normalization and edit distance primitives
// used by the relevance scorer.
package text

import "strings"

// MinTokenLen is the minimum length a word must exceed to count as a token.
// Shorter words still participate in phrase extraction.
const MinTokenLen = 2

// Normalize lowercases and trims a raw string. Nil-safe by construction,
// an empty input stays empty.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Tokenize splits a string on whitespace and returns the deduplicated
// tokens longer than MinTokenLen, in first-seen order.
func Tokenize(raw string) []string {
	words := strings.Fields(Normalize(raw))

	seen := make(map[string]bool, len(words))
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= MinTokenLen || seen[word] {
			continue
		}
		seen[word] = true
		tokens = append(tokens, word)
	}

	return tokens
}

// Phrases returns the deduplicated contiguous word windows of 2 to 4 words.
// Windows slide over the full word sequence including short words, phrases
// like "to go" carry meaning even though the words are below MinTokenLen.
func Phrases(raw string) []string {
	words := strings.Fields(Normalize(raw))

	seen := make(map[string]bool)
	var phrases []string
	for size := 2; size <= 4 && size <= len(words); size++ {
		for i := 0; i+size <= len(words); i++ {
			phrase := strings.Join(words[i:i+size], " ")
			if seen[phrase] {
				continue
			}
			seen[phrase] = true
			phrases = append(phrases, phrase)
		}
	}

	return phrases
}

// PhraseLen returns the number of words in a phrase.
func PhraseLen(phrase string) int {
	return len(strings.Fields(phrase))
}
