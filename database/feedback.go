package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/model"
	"github.com/tripwise/tripwise/sql"
)

// FeedbackDBHandlerFunctions defines the interface for chat feedback operations.
type FeedbackDBHandlerFunctions interface {
	InsertChatFeedback(feedback *model.Feedback) error
	SelectFeedbackForQuery(queryRID uuid.UUID) ([]*model.Feedback, error)
}

// FeedbackDBHandler handles chat feedback database operations
type FeedbackDBHandler struct {
	db *helper.Database
}

// NewFeedbackDBHandler creates a new chat feedback handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewFeedbackDBHandler(db *helper.Database, force bool) (*FeedbackDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	feedbackDbHandler := &FeedbackDBHandler{
		db: db,
	}

	err := sql.LoadChatFeedbackSql(feedbackDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chat feedback sql", err)
	}

	err = feedbackDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized FeedbackDBHandler")

	return feedbackDbHandler, nil
}

// CreateTable creates the 'chat_feedback' table in the database.
// If the table already exists, it does not create it again.
func (h *FeedbackDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chat_feedback();`)
	if err != nil {
		log.Panicf("error initializing chat_feedback table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chat_feedback")

	return nil
}

// InsertChatFeedback inserts a feedback record for a previous chat query
func (h *FeedbackDBHandler) InsertChatFeedback(feedback *model.Feedback) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chat_feedback($1, $2, $3, $4)`,
		feedback.QueryRID,
		feedback.UserID,
		feedback.Helpful,
		feedback.Comments,
	)

	err := row.Scan(
		&feedback.ID,
		&feedback.QueryRID,
		&feedback.UserID,
		&feedback.Helpful,
		&feedback.Comments,
		&feedback.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectFeedbackForQuery retrieves all feedback records given for a chat query
func (h *FeedbackDBHandler) SelectFeedbackForQuery(queryRID uuid.UUID) ([]*model.Feedback, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_feedback_for_query($1)`,
		queryRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var feedbacks []*model.Feedback
	for rows.Next() {
		feedback := &model.Feedback{}
		err := rows.Scan(
			&feedback.ID,
			&feedback.QueryRID,
			&feedback.UserID,
			&feedback.Helpful,
			&feedback.Comments,
			&feedback.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		feedbacks = append(feedbacks, feedback)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return feedbacks, nil
}
