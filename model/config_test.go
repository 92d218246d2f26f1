package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultScoringConfig(t *testing.T) {
	config := DefaultScoringConfig()

	t.Run("Signal weights keep their relative ordering", func(t *testing.T) {
		assert.Greater(t, config.ExactMatchWeight, config.QuestionPrefixWeight, "Expected exact match to outweigh prefix match")
		assert.Greater(t, config.QuestionPrefixWeight, config.QuestionContainsWeight, "Expected prefix match to outweigh contains match")
		assert.Greater(t, config.QuestionContainsWeight, config.AnswerContainsWeight, "Expected question contains to outweigh answer contains")
		assert.Greater(t, config.QuestionTokenWeight, config.AnswerTokenWeight, "Expected question token to outweigh answer token")
		assert.Greater(t, config.QuestionPhraseWeight, config.AnswerPhraseWeight, "Expected question phrase to outweigh answer phrase")
	})

	t.Run("Fuzzy bounds", func(t *testing.T) {
		assert.Equal(t, 2, config.FuzzyMaxDistance, "Expected fuzzy matching to tolerate up to two edits")
		assert.Equal(t, 4, config.FuzzyMinTokenLen, "Expected fuzzy matching to skip short tokens")
	})
}

func TestDefaultChatConfig(t *testing.T) {
	config := DefaultChatConfig()

	assert.Equal(t, 3, config.TopK, "Expected default top-k of 3")
	assert.Equal(t, 200, config.CandidateLimit, "Expected bounded candidate pool")
	assert.Equal(t, 15*time.Second, config.ExternalTimeout, "Expected bounded external timeout")
	assert.Equal(t, 2, config.TranslationRetries, "Expected bounded translation retries")
}
