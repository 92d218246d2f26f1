package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/model"
	"github.com/tripwise/tripwise/sql"
)

// KnowledgeDBHandlerFunctions defines the interface for knowledge store operations.
type KnowledgeDBHandlerFunctions interface {
	InsertKnowledgeEntry(entry *model.KnowledgeEntry) error
	SelectKnowledgeEntry(rid uuid.UUID) (*model.KnowledgeEntry, error)
	SelectKnowledgeEntryByQuestion(question string) (*model.KnowledgeEntry, error)
	SelectAllKnowledgeEntries(limit int) ([]*model.KnowledgeEntry, error)
	SelectKnowledgeEntriesByCategory(category model.Category, limit int) ([]*model.KnowledgeEntry, error)
	SearchKnowledgeEntries(term string, limit int) ([]*model.KnowledgeEntry, error)
	UpdateKnowledgeEntry(entry *model.KnowledgeEntry) error
	DeleteKnowledgeEntry(rid uuid.UUID) error
}

// KnowledgeDBHandler handles knowledge-store database operations
type KnowledgeDBHandler struct {
	db *helper.Database
}

// NewKnowledgeDBHandler creates a new knowledge store handler.
// It loads the knowledge SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewKnowledgeDBHandler(db *helper.Database, force bool) (*KnowledgeDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	knowledgeDbHandler := &KnowledgeDBHandler{
		db: db,
	}

	err := sql.LoadKnowledgeSql(knowledgeDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load knowledge sql", err)
	}

	err = knowledgeDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized KnowledgeDBHandler")

	return knowledgeDbHandler, nil
}

// CreateTable creates the 'knowledge' table in the database.
// If the table already exists, it does not create it again.
func (h *KnowledgeDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_knowledge();`)
	if err != nil {
		log.Panicf("error initializing knowledge table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table knowledge")

	return nil
}

// InsertKnowledgeEntry inserts a new knowledge entry. Unknown categories
// are defaulted to general at this boundary, the table only accepts the
// closed category set.
func (h *KnowledgeDBHandler) InsertKnowledgeEntry(entry *model.KnowledgeEntry) error {
	entry.Category = model.ParseCategory(string(entry.Category))

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_knowledge_entry($1, $2, $3, $4)`,
		entry.Question,
		entry.Answer,
		string(entry.Category),
		pq.Array(entry.Tags),
	)

	err := row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Question,
		&entry.Answer,
		&entry.Category,
		pq.Array(&entry.Tags),
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectKnowledgeEntry retrieves a knowledge entry by RID
func (h *KnowledgeDBHandler) SelectKnowledgeEntry(rid uuid.UUID) (*model.KnowledgeEntry, error) {
	entry := &model.KnowledgeEntry{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_knowledge_entry($1)`,
		rid,
	)

	err := row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Question,
		&entry.Answer,
		&entry.Category,
		pq.Array(&entry.Tags),
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entry, nil
}

// SelectKnowledgeEntryByQuestion retrieves a knowledge entry by its unique question
func (h *KnowledgeDBHandler) SelectKnowledgeEntryByQuestion(question string) (*model.KnowledgeEntry, error) {
	entry := &model.KnowledgeEntry{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_knowledge_entry_by_question($1)`,
		question,
	)

	err := row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Question,
		&entry.Answer,
		&entry.Category,
		pq.Array(&entry.Tags),
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entry, nil
}

// SelectAllKnowledgeEntries retrieves the bounded candidate pool in
// insertion order
func (h *KnowledgeDBHandler) SelectAllKnowledgeEntries(limit int) ([]*model.KnowledgeEntry, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_knowledge_entries($1)`,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanKnowledgeEntries(rows)
}

// SelectKnowledgeEntriesByCategory retrieves entries of one category
func (h *KnowledgeDBHandler) SelectKnowledgeEntriesByCategory(category model.Category, limit int) ([]*model.KnowledgeEntry, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_knowledge_entries_by_category($1, $2)`,
		string(category),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanKnowledgeEntries(rows)
}

// SearchKnowledgeEntries retrieves entries whose question or answer
// contains the search term
func (h *KnowledgeDBHandler) SearchKnowledgeEntries(term string, limit int) ([]*model.KnowledgeEntry, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM search_knowledge_entries($1, $2)`,
		term,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanKnowledgeEntries(rows)
}

// UpdateKnowledgeEntry updates an existing knowledge entry by RID
func (h *KnowledgeDBHandler) UpdateKnowledgeEntry(entry *model.KnowledgeEntry) error {
	entry.Category = model.ParseCategory(string(entry.Category))

	row := h.db.Instance.QueryRow(
		`SELECT * FROM update_knowledge_entry($1, $2, $3, $4, $5)`,
		entry.RID,
		entry.Question,
		entry.Answer,
		string(entry.Category),
		pq.Array(entry.Tags),
	)

	err := row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Question,
		&entry.Answer,
		&entry.Category,
		pq.Array(&entry.Tags),
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteKnowledgeEntry deletes a knowledge entry by RID
func (h *KnowledgeDBHandler) DeleteKnowledgeEntry(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_knowledge_entry($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("delete", err)
	}

	return nil
}

// rowsScanner is the subset of sql.Rows used by scanKnowledgeEntries
type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanKnowledgeEntries(rows rowsScanner) ([]*model.KnowledgeEntry, error) {
	var entries []*model.KnowledgeEntry
	for rows.Next() {
		entry := &model.KnowledgeEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.RID,
			&entry.Question,
			&entry.Answer,
			&entry.Category,
			pq.Array(&entry.Tags),
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return entries, nil
}
