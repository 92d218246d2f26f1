package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerSource describes how a chat reply was produced.
type AnswerSource string

const (
	// AnswerSourceHybrid marks replies composed from ranked knowledge
	// entries by the generative service.
	AnswerSourceHybrid AnswerSource = "hybrid_approach"
	// AnswerSourceFallback marks canned intent replies and every degraded
	// path (generation or translation failure).
	AnswerSourceFallback AnswerSource = "fallback"
)

// ChatRequest is one inbound chat message.
type ChatRequest struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Language string `json:"language,omitempty"`
}

// ChatResponse is the reply to one chat message.
type ChatResponse struct {
	Reply            string       `json:"reply"`
	Source           AnswerSource `json:"source"`
	QueryID          uuid.UUID    `json:"queryId"`
	DetectedLanguage Language     `json:"detectedLanguage"`
}

// ChatQuery is the stored log record of a handled chat message.
type ChatQuery struct {
	ID        int64        `json:"id"`
	RID       uuid.UUID    `json:"rid"`
	UserID    string       `json:"user_id"`
	Message   string       `json:"message"`
	Reply     string       `json:"reply"`
	Source    AnswerSource `json:"source"`
	Language  Language     `json:"language"`
	CreatedAt time.Time    `json:"created_at"`
}

// Feedback is a user verdict on a previous chat reply. It is a sink, the
// ranking core never reads it back.
type Feedback struct {
	ID        int64     `json:"id"`
	QueryRID  uuid.UUID `json:"query_rid"`
	UserID    string    `json:"user_id"`
	Helpful   bool      `json:"helpful"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
