package tripwise

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/tripwise/core/compose"
	"github.com/tripwise/tripwise/core/intent"
	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/model"
)

const testReply = "You can book a trip in the app by picking a destination and your travel dates."

// testGenerator answers composition prompts with a fixed reply and echoes
// translation prompts back, which keeps translated text plausible.
func testGenerator() compose.GenerateFunc {
	return func(ctx context.Context, system string, prompt string) (string, error) {
		if strings.HasPrefix(prompt, "Translate the following text") {
			parts := strings.SplitN(prompt, "\n\n", 2)
			return parts[len(parts)-1], nil
		}
		return testReply, nil
	}
}

func failingGenerator() compose.GenerateFunc {
	return func(ctx context.Context, system string, prompt string) (string, error) {
		return "", fmt.Errorf("model unavailable")
	}
}

func initTripwise(t *testing.T, generator compose.Generator) *Tripwise {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err, "failed to create database configuration")

	tw, err := NewTripwise(dbConfig, model.DefaultChatConfig(), generator)
	require.NoError(t, err, "failed to create tripwise")
	require.NotNil(t, tw, "expected tripwise to be non-nil")

	t.Cleanup(func() {
		tw.Close()
	})

	return tw
}

func TestNewTripwise(t *testing.T) {
	helper.SetTestDatabaseConfigEnvs(t, dbPort)
	dbConfig, err := helper.NewDatabaseConfiguration()
	require.NoError(t, err)

	t.Run("Valid call NewTripwise", func(t *testing.T) {
		tw, err := NewTripwise(dbConfig, model.DefaultChatConfig(), testGenerator())
		require.NoError(t, err, "Expected NewTripwise to not return an error")
		require.NotNil(t, tw, "Expected NewTripwise to return a non-nil instance")
		assert.NotNil(t, tw.DB, "Expected tripwise to have a database instance")
		assert.NotNil(t, tw.Knowledge, "Expected tripwise to have a knowledge handler")
		assert.NotNil(t, tw.ChatQueries, "Expected tripwise to have a chat queries handler")
		assert.NotNil(t, tw.Feedback, "Expected tripwise to have a feedback handler")
		assert.NotNil(t, tw.Engine, "Expected tripwise to have a ranking engine")
		assert.NotNil(t, tw.Composer, "Expected tripwise to have a composer")
		assert.NotNil(t, tw.Translator, "Expected tripwise to have a translator")

		// Cleanup
		err = tw.Close()
		assert.NoError(t, err, "Expected Close to not return an error")
	})

	t.Run("Tripwise with nil database handles Close gracefully", func(t *testing.T) {
		tw := &Tripwise{}

		err := tw.Close()
		assert.NoError(t, err, "Expected Close to handle nil DB gracefully")
	})
}

func TestChat(t *testing.T) {
	tw := initTripwise(t, testGenerator())
	ctx := context.Background()

	entry := &model.KnowledgeEntry{
		Question: "How do I book a trip?",
		Answer:   "Open the app, pick a destination and choose your dates.",
		Category: model.CategoryBookings,
		Tags:     []string{"booking"},
	}
	err := tw.AddKnowledgeEntry(entry)
	require.NoError(t, err)
	t.Cleanup(func() {
		tw.Knowledge.DeleteKnowledgeEntry(entry.RID)
	})

	t.Run("Empty message is rejected", func(t *testing.T) {
		_, err := tw.Chat(ctx, &model.ChatRequest{Message: "   ", UserID: "user-1"})
		assert.Error(t, err, "Expected Chat to reject an empty message")
		assert.True(t, errors.Is(err, ErrEmptyMessage), "Expected ErrEmptyMessage")
	})

	t.Run("Nil request is rejected", func(t *testing.T) {
		_, err := tw.Chat(ctx, nil)
		assert.True(t, errors.Is(err, ErrEmptyMessage), "Expected ErrEmptyMessage for nil request")
	})

	t.Run("Greeting short-circuits with canned reply", func(t *testing.T) {
		response, err := tw.Chat(ctx, &model.ChatRequest{Message: "Hello there", UserID: "user-1"})
		require.NoError(t, err, "Expected Chat to not return an error")
		expected, _ := intent.Response(intent.IntentGreeting)
		assert.Equal(t, expected, response.Reply, "Expected the canned greeting reply")
		assert.Equal(t, model.AnswerSourceFallback, response.Source, "Expected canned replies to be marked fallback")
		assert.NotEqual(t, uuid.Nil, response.QueryID, "Expected a query RID")
		assert.Equal(t, model.LanguageEnglish, response.DetectedLanguage, "Expected English as default language")
	})

	t.Run("Knowledge question composes a reply", func(t *testing.T) {
		response, err := tw.Chat(ctx, &model.ChatRequest{Message: "How do I book a trip?", UserID: "user-1"})
		require.NoError(t, err, "Expected Chat to not return an error")
		assert.Equal(t, testReply, response.Reply, "Expected the composed reply")
		assert.Equal(t, model.AnswerSourceHybrid, response.Source, "Expected composed replies to be marked hybrid")
	})

	t.Run("Chat exchange is logged under the query RID", func(t *testing.T) {
		response, err := tw.Chat(ctx, &model.ChatRequest{Message: "How do I book a trip?", UserID: "user-log"})
		require.NoError(t, err)

		logged, err := tw.ChatQueries.SelectChatQuery(response.QueryID)
		require.NoError(t, err, "Expected the exchange to be logged")
		assert.Equal(t, "How do I book a trip?", logged.Message, "Expected message to be logged")
		assert.Equal(t, response.Reply, logged.Reply, "Expected reply to be logged")
		assert.Equal(t, response.Source, logged.Source, "Expected source to be logged")
	})

	t.Run("Foreign language round-trips through translation", func(t *testing.T) {
		response, err := tw.Chat(ctx, &model.ChatRequest{
			Message:  "Como reservo un viaje?",
			UserID:   "user-1",
			Language: "es-MX",
		})
		require.NoError(t, err, "Expected Chat to not return an error")
		assert.Equal(t, model.LanguageSpanish, response.DetectedLanguage, "Expected region subtag to be stripped")
		assert.Equal(t, model.AnswerSourceHybrid, response.Source, "Expected composed replies to be marked hybrid")
		assert.Equal(t, testReply, response.Reply, "Expected the echo-translated composed reply")
	})
}

func TestChatFallback(t *testing.T) {
	tw := initTripwise(t, failingGenerator())
	ctx := context.Background()

	t.Run("Generation failure degrades to apology", func(t *testing.T) {
		response, err := tw.Chat(ctx, &model.ChatRequest{Message: "How do I book a trip?", UserID: "user-1"})
		require.NoError(t, err, "Expected Chat to degrade instead of failing")
		assert.Equal(t, compose.FallbackReply(model.LanguageEnglish), response.Reply, "Expected the fallback apology")
		assert.Equal(t, model.AnswerSourceFallback, response.Source, "Expected degraded replies to be marked fallback")
	})

	t.Run("Fallback apology is localized", func(t *testing.T) {
		response, err := tw.Chat(ctx, &model.ChatRequest{
			Message:  "Como reservo un viaje?",
			UserID:   "user-1",
			Language: "es",
		})
		require.NoError(t, err, "Expected Chat to degrade instead of failing")
		assert.Equal(t, compose.FallbackReply(model.LanguageSpanish), response.Reply, "Expected the Spanish fallback apology")
		assert.Equal(t, model.AnswerSourceFallback, response.Source, "Expected degraded replies to be marked fallback")
	})
}

func TestAddKnowledgeEntry(t *testing.T) {
	tw := initTripwise(t, testGenerator())

	t.Run("Valid entry is inserted", func(t *testing.T) {
		entry := &model.KnowledgeEntry{
			Question: "Do you offer custom tours to Hunza?",
			Answer:   "Yes, custom tours can be arranged through the app.",
			Category: model.CategoryCustomTours,
		}
		err := tw.AddKnowledgeEntry(entry)
		assert.NoError(t, err, "Expected AddKnowledgeEntry to not return an error")
		assert.NotEqual(t, uuid.Nil, entry.RID, "Expected inserted entry to have a RID")

		// Cleanup
		tw.Knowledge.DeleteKnowledgeEntry(entry.RID)
	})

	t.Run("Entry without question is rejected", func(t *testing.T) {
		err := tw.AddKnowledgeEntry(&model.KnowledgeEntry{Answer: "An answer."})
		assert.Error(t, err, "Expected AddKnowledgeEntry to reject a missing question")
	})

	t.Run("Nil entry is rejected", func(t *testing.T) {
		err := tw.AddKnowledgeEntry(nil)
		assert.Error(t, err, "Expected AddKnowledgeEntry to reject a nil entry")
	})
}

func TestRecordFeedback(t *testing.T) {
	tw := initTripwise(t, testGenerator())
	ctx := context.Background()

	response, err := tw.Chat(ctx, &model.ChatRequest{Message: "Hello", UserID: "user-feedback"})
	require.NoError(t, err)

	t.Run("Feedback on a reply is stored", func(t *testing.T) {
		feedback := &model.Feedback{
			QueryRID: response.QueryID,
			UserID:   "user-feedback",
			Helpful:  true,
			Comments: "Friendly greeting.",
		}
		err := tw.RecordFeedback(feedback)
		assert.NoError(t, err, "Expected RecordFeedback to not return an error")

		stored, err := tw.Feedback.SelectFeedbackForQuery(response.QueryID)
		require.NoError(t, err)
		assert.Len(t, stored, 1, "Expected one feedback record for the query")
		assert.True(t, stored[0].Helpful, "Expected the stored verdict to match")
	})

	t.Run("Feedback without query RID is rejected", func(t *testing.T) {
		err := tw.RecordFeedback(&model.Feedback{UserID: "user-feedback", Helpful: false})
		assert.Error(t, err, "Expected RecordFeedback to reject a missing query RID")
	})
}

func TestHistory(t *testing.T) {
	tw := initTripwise(t, testGenerator())
	ctx := context.Background()

	userID := "user-history-root"
	messages := []string{"Hello", "Thanks a lot", "Goodbye"}
	for _, message := range messages {
		_, err := tw.Chat(ctx, &model.ChatRequest{Message: message, UserID: userID})
		require.NoError(t, err)
	}

	history, err := tw.History(userID, 10)
	assert.NoError(t, err, "Expected History to not return an error")
	assert.Len(t, history, len(messages), "Expected all exchanges of the user")
	assert.Equal(t, "Goodbye", history[0].Message, "Expected latest exchange first")
}
