package compose

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGeneratorComplete(t *testing.T) {
	t.Run("Sends system and user messages and returns the first choice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req chatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 2)
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "user", req.Messages[1].Role)
			assert.Equal(t, "How do I book a trip?", req.Messages[1].Content)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": "Press the booking button."}},
				},
			})
		}))
		defer server.Close()

		generator := NewOpenAIGenerator(server.URL, "test-key", "test-model")
		reply, err := generator.Complete(context.Background(), "You are a travel assistant.", "How do I book a trip?")

		assert.NoError(t, err, "Expected Complete to not return an error")
		assert.Equal(t, "Press the booking button.", reply)
	})

	t.Run("Surfaces API errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "rate limit exceeded"},
			})
		}))
		defer server.Close()

		generator := NewOpenAIGenerator(server.URL, "test-key", "test-model")
		_, err := generator.Complete(context.Background(), "system", "prompt")

		assert.Error(t, err, "Expected non-200 status to be an error")
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})

	t.Run("Empty choices is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer server.Close()

		generator := NewOpenAIGenerator(server.URL, "", "test-model")
		_, err := generator.Complete(context.Background(), "system", "prompt")

		assert.Error(t, err, "Expected empty choices to be an error")
	})

	t.Run("Context cancellation aborts the call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		generator := NewOpenAIGenerator(server.URL, "", "test-model")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := generator.Complete(ctx, "system", "prompt")
		assert.Error(t, err, "Expected canceled context to abort the request")
	})
}
