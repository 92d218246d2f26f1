// Package retrieval scores and ranks knowledge entries against user queries.
package retrieval

import (
	"strings"

	"github.com/tripwise/tripwise/core/text"
	"github.com/tripwise/tripwise/model"
)

// Score computes the relevance of a knowledge entry for a query as an
// additive combination of weighted signals: literal substring and equality
// matches for precision, token overlap for recall, bounded edit distance
// for typo tolerance and tag/category overlap for topical grounding.
// Pure function of (query, entry), every token and phrase contribution
// accumulates, nothing short-circuits after the first match.
func Score(query string, entry *model.KnowledgeEntry, config model.ScoringConfig) float64 {
	normQuery := text.Normalize(query)
	if normQuery == "" || entry == nil {
		return 0
	}

	normQuestion := text.Normalize(entry.Question)
	normAnswer := text.Normalize(entry.Answer)

	score := 0.0

	// Full-string signals. Exact, prefix and contains on the question are
	// mutually exclusive, strongest first.
	switch {
	case normQuery == normQuestion:
		score += config.ExactMatchWeight
	case strings.HasPrefix(normQuestion, normQuery):
		score += config.QuestionPrefixWeight
	case strings.Contains(normQuestion, normQuery):
		score += config.QuestionContainsWeight
	}
	if strings.Contains(normAnswer, normQuery) {
		score += config.AnswerContainsWeight
	}

	queryTokens := text.Tokenize(normQuery)
	questionTokens := text.Tokenize(normQuestion)
	answerTokens := text.Tokenize(normAnswer)

	questionSet := tokenSet(questionTokens)
	answerSet := tokenSet(answerTokens)
	tagSet := make(map[string]bool, len(entry.Tags))
	for _, tag := range entry.Tags {
		tagSet[text.Normalize(tag)] = true
	}
	category := string(entry.Category)

	for _, token := range queryTokens {
		if questionSet[token] {
			score += config.QuestionTokenWeight
		}
		if answerSet[token] {
			score += config.AnswerTokenWeight
		}
		if tagSet[token] {
			score += config.TagTokenWeight
		}
		if strings.Contains(category, token) {
			score += config.CategoryTokenWeight
		}

		score += tokenPairScore(token, questionTokens, config)
	}

	// Phrase signals. Single-word phrases are excluded by construction,
	// they are already covered by the token signals above.
	for _, phrase := range text.Phrases(normQuery) {
		length := float64(text.PhraseLen(phrase))
		if strings.Contains(normQuestion, phrase) {
			score += config.QuestionPhraseWeight * length
		}
		if strings.Contains(normAnswer, phrase) {
			score += config.AnswerPhraseWeight * length
		}
	}
	for _, phrase := range text.Phrases(normQuestion) {
		if strings.Contains(normQuery, phrase) {
			score += config.ReversePhraseWeight * float64(text.PhraseLen(phrase))
		}
	}

	return score
}

// tokenPairScore accumulates the partial and fuzzy matches of one query
// token against the question tokens. Equal tokens are skipped, those are
// already counted by the exact token signal.
func tokenPairScore(token string, questionTokens []string, config model.ScoringConfig) float64 {
	score := 0.0
	for _, qt := range questionTokens {
		if token == qt {
			continue
		}

		if len(token) >= config.PartialMinTokenLen && len(qt) >= config.PartialMinTokenLen &&
			(strings.Contains(qt, token) || strings.Contains(token, qt)) {
			score += config.TokenPartialWeight
		}

		if len(token) >= config.FuzzyMinTokenLen && text.Levenshtein(token, qt) <= config.FuzzyMaxDistance {
			score += config.TokenFuzzyWeight
		}
	}
	return score
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
