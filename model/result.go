package model

// ScoredCandidate pairs a knowledge entry with its relevance score for one
// query. Candidates are produced fresh per query and never persisted.
type ScoredCandidate struct {
	Entry *KnowledgeEntry `json:"entry"`
	Score float64         `json:"score"`
}

// Translation is the result of a translation attempt. Translated reports
// whether the text actually went through the external service; on failure
// Text carries the untouched input.
type Translation struct {
	Text       string `json:"text"`
	Translated bool   `json:"translated"`
}
