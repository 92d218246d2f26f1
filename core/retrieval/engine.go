package retrieval

import (
	"context"
	"sort"

	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/model"
)

// KnowledgeSource provides the bounded candidate pool for ranking.
type KnowledgeSource interface {
	SelectAllKnowledgeEntries(limit int) ([]*model.KnowledgeEntry, error)
}

// Engine ranks knowledge entries from a source against user queries.
type Engine struct {
	knowledge KnowledgeSource
	config    model.ChatConfig
}

// NewEngine creates a new retrieval engine.
func NewEngine(knowledge KnowledgeSource, config model.ChatConfig) *Engine {
	return &Engine{
		knowledge: knowledge,
		config:    config,
	}
}

// Rank fetches the bounded candidate pool and returns the top-k entries by
// relevance score. A store failure is surfaced, ranking has no meaningful
// fallback without candidate data.
func (e *Engine) Rank(ctx context.Context, query string) ([]model.ScoredCandidate, error) {
	entries, err := e.knowledge.SelectAllKnowledgeEntries(e.config.CandidateLimit)
	if err != nil {
		return nil, helper.NewError("select knowledge candidates", err)
	}

	return RankEntries(query, entries, e.config.TopK, e.config.Scoring), nil
}

// RankEntries scores every candidate, sorts descending by score and returns
// the top-k. The sort is stable, ties keep the original collection order so
// results stay reproducible. An empty candidate pool yields an empty result,
// all-zero scores still return top-k by the tie-break; judging "no relevant
// results" belongs to the caller.
func RankEntries(query string, entries []*model.KnowledgeEntry, topK int, config model.ScoringConfig) []model.ScoredCandidate {
	if topK <= 0 {
		topK = model.DefaultChatConfig().TopK
	}

	candidates := make([]model.ScoredCandidate, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		candidates = append(candidates, model.ScoredCandidate{
			Entry: entry,
			Score: Score(query, entry, config),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return candidates
}
