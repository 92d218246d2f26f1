// Package server exposes the chat pipeline and the knowledge store over a
// small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tripwise/tripwise"
	"github.com/tripwise/tripwise/model"
)

// Server is the HTTP server for the chat and knowledge API.
type Server struct {
	tw   *tripwise.Tripwise
	addr string
	log  *slog.Logger
}

// NewServer creates a new HTTP server around an initialized Tripwise
// instance.
func NewServer(tw *tripwise.Tripwise, addr string, logger *slog.Logger) *Server {
	return &Server{
		tw:   tw,
		addr: addr,
		log:  logger,
	}
}

// Handler builds the routed handler with logging and CORS middleware.
// Exposed separately from Start for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/feedback", s.handleFeedback)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /api/knowledge", s.handleListKnowledge)
	mux.HandleFunc("POST /api/knowledge", s.handleCreateKnowledge)
	mux.HandleFunc("GET /api/knowledge/{rid}", s.handleGetKnowledge)
	mux.HandleFunc("PUT /api/knowledge/{rid}", s.handleUpdateKnowledge)
	mux.HandleFunc("DELETE /api/knowledge/{rid}", s.handleDeleteKnowledge)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.log.Info("Server starting", slog.String("addr", s.addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var request model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := s.tw.Chat(r.Context(), &request)
	if errors.Is(err, tripwise.ErrEmptyMessage) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error("Chat failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "knowledge store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// feedbackRequest is the inbound shape of POST /api/feedback.
type feedbackRequest struct {
	QueryID  string `json:"queryId"`
	UserID   string `json:"userId"`
	Helpful  bool   `json:"helpful"`
	Comments string `json:"comments,omitempty"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var request feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	queryRID, err := uuid.Parse(request.QueryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "queryId must be a valid UUID")
		return
	}

	feedback := &model.Feedback{
		QueryRID: queryRID,
		UserID:   request.UserID,
		Helpful:  request.Helpful,
		Comments: request.Comments,
	}
	if err := s.tw.RecordFeedback(feedback); err != nil {
		s.log.Error("Feedback failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store feedback")
		return
	}

	writeJSON(w, http.StatusCreated, feedback)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), 20)

	queries, err := s.tw.History(userID, limit)
	if err != nil {
		s.log.Error("History failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if queries == nil {
		queries = []*model.ChatQuery{}
	}

	writeJSON(w, http.StatusOK, queries)
}

func (s *Server) handleListKnowledge(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"), 100)

	var entries []*model.KnowledgeEntry
	var err error
	switch {
	case r.URL.Query().Get("search") != "":
		entries, err = s.tw.Knowledge.SearchKnowledgeEntries(r.URL.Query().Get("search"), limit)
	case r.URL.Query().Get("category") != "":
		category := model.ParseCategory(r.URL.Query().Get("category"))
		entries, err = s.tw.Knowledge.SelectKnowledgeEntriesByCategory(category, limit)
	default:
		entries, err = s.tw.Knowledge.SelectAllKnowledgeEntries(limit)
	}
	if err != nil {
		s.log.Error("List knowledge failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to load knowledge entries")
		return
	}
	if entries == nil {
		entries = []*model.KnowledgeEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateKnowledge(w http.ResponseWriter, r *http.Request) {
	var entry model.KnowledgeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(entry.Question) == "" || strings.TrimSpace(entry.Answer) == "" {
		writeError(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	if err := s.tw.AddKnowledgeEntry(&entry); err != nil {
		s.log.Error("Create knowledge failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store knowledge entry")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGetKnowledge(w http.ResponseWriter, r *http.Request) {
	rid, err := uuid.Parse(r.PathValue("rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "rid must be a valid UUID")
		return
	}

	entry, err := s.tw.Knowledge.SelectKnowledgeEntry(rid)
	if err != nil {
		writeError(w, http.StatusNotFound, "knowledge entry not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleUpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	rid, err := uuid.Parse(r.PathValue("rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "rid must be a valid UUID")
		return
	}

	var entry model.KnowledgeEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	entry.RID = rid

	if err := s.tw.Knowledge.UpdateKnowledgeEntry(&entry); err != nil {
		writeError(w, http.StatusNotFound, "knowledge entry not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	rid, err := uuid.Parse(r.PathValue("rid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "rid must be a valid UUID")
		return
	}

	if err := s.tw.Knowledge.DeleteKnowledgeEntry(rid); err != nil {
		s.log.Error("Delete knowledge failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to delete knowledge entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.tw.DB != nil && s.tw.DB.Instance != nil {
		if err := s.tw.DB.Instance.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func parseLimit(raw string, defaultLimit int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return limit
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("Handled request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("duration", time.Since(start).String()),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
