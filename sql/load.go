// Package sql embeds and loads the PostgreSQL functions backing the
// knowledge store, the chat query log and the feedback sink.
package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed knowledge.sql
var knowledgeSQL string

//go:embed chat_queries.sql
var chatQueriesSQL string

//go:embed chat_feedback.sql
var chatFeedbackSQL string

// Function lists for verification
var KnowledgeFunctions = []string{
	"init_knowledge",
	"insert_knowledge_entry",
	"select_knowledge_entry",
	"select_knowledge_entry_by_question",
	"select_all_knowledge_entries",
	"select_knowledge_entries_by_category",
	"search_knowledge_entries",
	"update_knowledge_entry",
	"delete_knowledge_entry",
}

var ChatQueriesFunctions = []string{
	"init_chat_queries",
	"insert_chat_query",
	"select_chat_query",
	"select_chat_queries_by_user",
}

var ChatFeedbackFunctions = []string{
	"init_chat_feedback",
	"insert_chat_feedback",
	"select_feedback_for_query",
}

// Init initializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadKnowledgeSql loads the knowledge-store SQL functions
func LoadKnowledgeSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, KnowledgeFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing knowledge functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(knowledgeSQL)
	if err != nil {
		return fmt.Errorf("error executing knowledge SQL: %w", err)
	}

	exist, err := checkFunctions(db, KnowledgeFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL knowledge functions loaded successfully")
	return nil
}

// LoadChatQueriesSql loads the chat query log SQL functions
func LoadChatQueriesSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ChatQueriesFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing chat queries functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(chatQueriesSQL)
	if err != nil {
		return fmt.Errorf("error executing chat queries SQL: %w", err)
	}

	exist, err := checkFunctions(db, ChatQueriesFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL chat queries functions loaded successfully")
	return nil
}

// LoadChatFeedbackSql loads the feedback SQL functions
func LoadChatFeedbackSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ChatFeedbackFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing chat feedback functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(chatFeedbackSQL)
	if err != nil {
		return fmt.Errorf("error executing chat feedback SQL: %w", err)
	}

	exist, err := checkFunctions(db, ChatFeedbackFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL chat feedback functions loaded successfully")
	return nil
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadKnowledgeSql(db, force); err != nil {
		return err
	}

	if err := LoadChatQueriesSql(db, force); err != nil {
		return err
	}

	if err := LoadChatFeedbackSql(db, force); err != nil {
		return err
	}

	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
