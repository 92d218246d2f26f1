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

// ChatQueriesDBHandlerFunctions defines the interface for chat query log operations.
type ChatQueriesDBHandlerFunctions interface {
	InsertChatQuery(query *model.ChatQuery) error
	SelectChatQuery(rid uuid.UUID) (*model.ChatQuery, error)
	SelectChatQueriesByUser(userID string, limit int) ([]*model.ChatQuery, error)
}

// ChatQueriesDBHandler handles chat query log database operations
type ChatQueriesDBHandler struct {
	db *helper.Database
}

// NewChatQueriesDBHandler creates a new chat query log handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChatQueriesDBHandler(db *helper.Database, force bool) (*ChatQueriesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chatQueriesDbHandler := &ChatQueriesDBHandler{
		db: db,
	}

	err := sql.LoadChatQueriesSql(chatQueriesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chat queries sql", err)
	}

	err = chatQueriesDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChatQueriesDBHandler")

	return chatQueriesDbHandler, nil
}

// CreateTable creates the 'chat_queries' table in the database.
// If the table already exists, it does not create it again.
func (h *ChatQueriesDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chat_queries();`)
	if err != nil {
		log.Panicf("error initializing chat_queries table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chat_queries")

	return nil
}

// InsertChatQuery inserts a new chat query log record. The RID must be set
// by the caller, it is handed to the user before the record is written.
func (h *ChatQueriesDBHandler) InsertChatQuery(query *model.ChatQuery) error {
	if query.RID == uuid.Nil {
		query.RID = uuid.New()
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chat_query($1, $2, $3, $4, $5, $6)`,
		query.RID,
		query.UserID,
		query.Message,
		query.Reply,
		string(query.Source),
		string(query.Language),
	)

	err := row.Scan(
		&query.ID,
		&query.RID,
		&query.UserID,
		&query.Message,
		&query.Reply,
		&query.Source,
		&query.Language,
		&query.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectChatQuery retrieves a chat query log record by RID
func (h *ChatQueriesDBHandler) SelectChatQuery(rid uuid.UUID) (*model.ChatQuery, error) {
	query := &model.ChatQuery{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_chat_query($1)`,
		rid,
	)

	err := row.Scan(
		&query.ID,
		&query.RID,
		&query.UserID,
		&query.Message,
		&query.Reply,
		&query.Source,
		&query.Language,
		&query.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return query, nil
}

// SelectChatQueriesByUser retrieves the latest chat query log records of a user
func (h *ChatQueriesDBHandler) SelectChatQueriesByUser(userID string, limit int) ([]*model.ChatQuery, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chat_queries_by_user($1, $2)`,
		userID,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var queries []*model.ChatQuery
	for rows.Next() {
		query := &model.ChatQuery{}
		err := rows.Scan(
			&query.ID,
			&query.RID,
			&query.UserID,
			&query.Message,
			&query.Reply,
			&query.Source,
			&query.Language,
			&query.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		queries = append(queries, query)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return queries, nil
}
