package tripwise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/tripwise/tripwise/core/compose"
	"github.com/tripwise/tripwise/core/intent"
	"github.com/tripwise/tripwise/core/retrieval"
	"github.com/tripwise/tripwise/database"
	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/metrics"
	"github.com/tripwise/tripwise/model"
	loadSql "github.com/tripwise/tripwise/sql"
)

// ErrEmptyMessage is returned by Chat for requests without a message. It is
// the only validation error, everything after validation degrades instead
// of failing.
var ErrEmptyMessage = errors.New("message must not be empty")

// Tripwise provides a unified interface to the chat pipeline and all
// database handlers
type Tripwise struct {
	DB          *helper.Database
	Knowledge   *database.KnowledgeDBHandler
	ChatQueries *database.ChatQueriesDBHandler
	Feedback    *database.FeedbackDBHandler
	Engine      *retrieval.Engine
	Composer    *compose.Composer
	Translator  *compose.Translator
	Config      model.ChatConfig
	// Logging
	log *slog.Logger
}

// NewTripwise creates a new Tripwise instance with all handlers initialized
func NewTripwise(config *helper.DatabaseConfiguration, chatConfig model.ChatConfig, generator compose.Generator) (*Tripwise, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("tripwise", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers.
	// force=false to not reload if functions already exist
	knowledge, err := database.NewKnowledgeDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create knowledge handler", err)
	}

	chatQueries, err := database.NewChatQueriesDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create chat queries handler", err)
	}

	feedback, err := database.NewFeedbackDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create feedback handler", err)
	}

	return &Tripwise{
		DB:          db,
		Knowledge:   knowledge,
		ChatQueries: chatQueries,
		Feedback:    feedback,
		Engine:      retrieval.NewEngine(knowledge, chatConfig),
		Composer:    compose.NewComposer(generator, chatConfig.ExternalTimeout),
		Translator:  compose.NewTranslator(generator, chatConfig),
		Config:      chatConfig,
		log:         logger,
	}, nil
}

// Logger returns the structured logger shared by the handlers
func (t *Tripwise) Logger() *slog.Logger {
	return t.log
}

// Close closes the database connection
func (t *Tripwise) Close() error {
	if t.DB != nil && t.DB.Instance != nil {
		return t.DB.Instance.Close()
	}
	return nil
}

// Chat handles one chat message end to end:
// 1. Classify the message against the intent patterns and short-circuit
// with a canned reply on a match.
// 2. Translate non-English messages to English for ranking.
// 3. Rank the knowledge pool and compose a reply from the top entries.
// 4. Translate the reply back to the user's language.
// 5. Log the exchange under a fresh query RID.
// Generation and translation failures degrade to a fallback apology, only
// an unreachable knowledge store fails the call.
func (t *Tripwise) Chat(ctx context.Context, request *model.ChatRequest) (*model.ChatResponse, error) {
	if request == nil || strings.TrimSpace(request.Message) == "" {
		return nil, ErrEmptyMessage
	}

	done := metrics.TimeChat()

	lang := model.ParseLanguage(request.Language)
	message := strings.TrimSpace(request.Message)

	// Intent patterns answer social messages without ranking or generation.
	if matched := intent.Classify(message); matched != intent.IntentNone {
		reply, _ := intent.Response(matched)
		reply = t.translateReply(ctx, reply, lang)
		metrics.Default().IncIntentShortCircuit(string(matched))

		response := t.respond(ctx, request, message, reply, model.AnswerSourceFallback, lang)
		done(string(response.Source), true)
		return response, nil
	}

	// Ranking works on English text, translate foreign messages first.
	// A failed inbound translation falls through to the original text.
	query := message
	if lang != model.LanguageEnglish {
		translation := t.Translator.Translate(ctx, message, lang, model.LanguageEnglish)
		metrics.Default().IncTranslationAttempt(translation.Translated)
		query = translation.Text
	}

	candidates, err := t.Engine.Rank(ctx, query)
	if err != nil {
		done("", false)
		return nil, helper.NewError("rank knowledge entries", err)
	}

	source := model.AnswerSourceHybrid
	reply, err := t.Composer.Compose(ctx, query, candidates, nil)
	if err != nil {
		t.log.Warn("Reply generation failed, using fallback", slog.String("error", err.Error()))
		reply = compose.FallbackReply(lang)
		source = model.AnswerSourceFallback
	} else if lang != model.LanguageEnglish {
		translation := t.Translator.Translate(ctx, reply, model.LanguageEnglish, lang)
		metrics.Default().IncTranslationAttempt(translation.Translated)
		if !translation.Translated {
			reply = compose.FallbackReply(lang)
			source = model.AnswerSourceFallback
		} else {
			reply = translation.Text
		}
	}

	response := t.respond(ctx, request, message, reply, source, lang)
	done(string(source), true)
	return response, nil
}

// translateReply translates a canned English reply into the user's
// language, keeping the English text when translation fails.
func (t *Tripwise) translateReply(ctx context.Context, reply string, lang model.Language) string {
	if lang == model.LanguageEnglish {
		return reply
	}
	translation := t.Translator.Translate(ctx, reply, model.LanguageEnglish, lang)
	metrics.Default().IncTranslationAttempt(translation.Translated)
	return translation.Text
}

// respond logs the exchange and builds the response. The log insert is
// best effort, a failed insert never fails the chat itself.
func (t *Tripwise) respond(ctx context.Context, request *model.ChatRequest, message, reply string, source model.AnswerSource, lang model.Language) *model.ChatResponse {
	query := &model.ChatQuery{
		RID:      uuid.New(),
		UserID:   request.UserID,
		Message:  message,
		Reply:    reply,
		Source:   source,
		Language: lang,
	}

	doneOp := metrics.TimeOp("insert_chat_query")
	err := t.ChatQueries.InsertChatQuery(query)
	doneOp(err == nil)
	if err != nil {
		t.log.Warn("Failed to log chat query", slog.String("error", err.Error()))
	}

	return &model.ChatResponse{
		Reply:            reply,
		Source:           source,
		QueryID:          query.RID,
		DetectedLanguage: lang,
	}
}

// AddKnowledgeEntry inserts a new knowledge entry into the pool
func (t *Tripwise) AddKnowledgeEntry(entry *model.KnowledgeEntry) error {
	if entry == nil || strings.TrimSpace(entry.Question) == "" || strings.TrimSpace(entry.Answer) == "" {
		return helper.NewError("validate knowledge entry", fmt.Errorf("question and answer must not be empty"))
	}

	doneOp := metrics.TimeOp("insert_knowledge_entry")
	err := t.Knowledge.InsertKnowledgeEntry(entry)
	doneOp(err == nil)
	if err != nil {
		return helper.NewError("insert knowledge entry", err)
	}

	t.log.Info("Inserted knowledge entry", slog.String("rid", entry.RID.String()), slog.String("category", string(entry.Category)))
	return nil
}

// RecordFeedback stores a user verdict on a previous reply. The verdict is
// write-only, it never feeds back into ranking.
func (t *Tripwise) RecordFeedback(feedback *model.Feedback) error {
	if feedback == nil || feedback.QueryRID == uuid.Nil {
		return helper.NewError("validate feedback", fmt.Errorf("query RID must be set"))
	}

	doneOp := metrics.TimeOp("insert_chat_feedback")
	err := t.Feedback.InsertChatFeedback(feedback)
	doneOp(err == nil)
	if err != nil {
		return helper.NewError("insert chat feedback", err)
	}

	return nil
}

// History returns the latest chat query log records of a user
func (t *Tripwise) History(userID string, limit int) ([]*model.ChatQuery, error) {
	queries, err := t.ChatQueries.SelectChatQueriesByUser(userID, limit)
	if err != nil {
		return nil, helper.NewError("select chat queries", err)
	}
	return queries, nil
}
