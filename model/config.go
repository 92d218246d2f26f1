package model

import "time"

// ScoringConfig holds the weights for the relevance scorer.
// The absolute values are hand-tuned policy, callers may re-tune them as
// long as the relative ordering of the signals is kept.
type ScoringConfig struct {
	// Full-string signals
	ExactMatchWeight       float64 `json:"exact_match_weight"`
	QuestionPrefixWeight   float64 `json:"question_prefix_weight"`
	QuestionContainsWeight float64 `json:"question_contains_weight"`
	AnswerContainsWeight   float64 `json:"answer_contains_weight"`

	// Per-token signals
	QuestionTokenWeight float64 `json:"question_token_weight"`
	AnswerTokenWeight   float64 `json:"answer_token_weight"`
	TokenPartialWeight  float64 `json:"token_partial_weight"`
	TokenFuzzyWeight    float64 `json:"token_fuzzy_weight"`
	TagTokenWeight      float64 `json:"tag_token_weight"`
	CategoryTokenWeight float64 `json:"category_token_weight"`

	// Per-phrase signals, scaled by phrase length in words
	QuestionPhraseWeight float64 `json:"question_phrase_weight"`
	AnswerPhraseWeight   float64 `json:"answer_phrase_weight"`
	ReversePhraseWeight  float64 `json:"reverse_phrase_weight"`

	// Fuzzy and partial matching bounds
	FuzzyMaxDistance   int `json:"fuzzy_max_distance"`
	FuzzyMinTokenLen   int `json:"fuzzy_min_token_len"`
	PartialMinTokenLen int `json:"partial_min_token_len"`
}

// DefaultScoringConfig returns the default scorer weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ExactMatchWeight:       30,
		QuestionPrefixWeight:   20,
		QuestionContainsWeight: 15,
		AnswerContainsWeight:   8,
		QuestionTokenWeight:    3,
		AnswerTokenWeight:      1,
		TokenPartialWeight:     1.5,
		TokenFuzzyWeight:       1,
		TagTokenWeight:         3,
		CategoryTokenWeight:    2.5,
		QuestionPhraseWeight:   3,
		AnswerPhraseWeight:     2,
		ReversePhraseWeight:    2,
		FuzzyMaxDistance:       2,
		FuzzyMinTokenLen:       4,
		PartialMinTokenLen:     4,
	}
}

// ChatConfig holds the knobs for the chat pipeline.
type ChatConfig struct {
	// TopK is the number of ranked entries handed to the composer.
	TopK int `json:"top_k"`
	// CandidateLimit caps how many entries are fetched from the store per
	// query. Known scalability ceiling: there is no pagination beyond it.
	CandidateLimit int `json:"candidate_limit"`
	// ExternalTimeout bounds every generation and translation call.
	ExternalTimeout time.Duration `json:"external_timeout"`
	// TranslationRetries bounds the plausibility retries of the translator.
	TranslationRetries int `json:"translation_retries"`

	Scoring ScoringConfig `json:"scoring"`
}

// DefaultChatConfig returns a sensible default configuration.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		TopK:               3,
		CandidateLimit:     200,
		ExternalTimeout:    15 * time.Second,
		TranslationRetries: 2,
		Scoring:            DefaultScoringConfig(),
	}
}
