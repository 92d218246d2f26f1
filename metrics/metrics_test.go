package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureRecorder struct {
	chatTotals        map[string]int
	dbTotals          map[string]int
	translationCalls  int
	intentShortCalls  map[string]int
	observedChatSecs  int
	observedDBSeconds int
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{
		chatTotals:       map[string]int{},
		dbTotals:         map[string]int{},
		intentShortCalls: map[string]int{},
	}
}

func (c *captureRecorder) IncChatTotal(source string, success bool) {
	c.chatTotals[source]++
}

func (c *captureRecorder) ObserveChatSeconds(source string, success bool, seconds float64) {
	c.observedChatSecs++
}

func (c *captureRecorder) IncDBOpTotal(op string, success bool) {
	c.dbTotals[op]++
}

func (c *captureRecorder) ObserveDBOpSeconds(op string, success bool, seconds float64) {
	c.observedDBSeconds++
}

func (c *captureRecorder) IncTranslationAttempt(success bool) {
	c.translationCalls++
}

func (c *captureRecorder) IncIntentShortCircuit(intent string) {
	c.intentShortCalls[intent]++
}

func TestMetricsDefaultIsNoop(t *testing.T) {
	rec := Default()
	assert.NotNil(t, rec, "Expected a default recorder")

	// Must not panic.
	rec.IncChatTotal("hybrid_approach", true)
	rec.ObserveChatSeconds("hybrid_approach", true, 0.1)
	rec.IncDBOpTotal("insert_chat_query", true)
	rec.IncTranslationAttempt(false)
	rec.IncIntentShortCircuit("greeting")
}

func TestMetricsSetRecorder(t *testing.T) {
	capture := newCaptureRecorder()
	previous := Default()
	SetRecorder(capture)
	defer SetRecorder(previous)

	t.Run("TimeChat records total and duration", func(t *testing.T) {
		done := TimeChat()
		done("fallback", true)
		assert.Equal(t, 1, capture.chatTotals["fallback"], "Expected one chat total for the source")
		assert.Equal(t, 1, capture.observedChatSecs, "Expected one chat duration observation")
	})

	t.Run("TimeOp records total and duration", func(t *testing.T) {
		done := TimeOp("insert_knowledge_entry")
		done(true)
		assert.Equal(t, 1, capture.dbTotals["insert_knowledge_entry"], "Expected one DB op total")
		assert.Equal(t, 1, capture.observedDBSeconds, "Expected one DB op duration observation")
	})

	t.Run("Counters increment directly", func(t *testing.T) {
		Default().IncTranslationAttempt(true)
		Default().IncIntentShortCircuit("thanks")
		assert.Equal(t, 1, capture.translationCalls, "Expected one translation attempt")
		assert.Equal(t, 1, capture.intentShortCalls["thanks"], "Expected one intent short circuit")
	})
}
