// Package intent detects short conversational openers so the chat pipeline
// can answer them directly without ranking or generation.
package intent

import (
	"regexp"

	"github.com/tripwise/tripwise/core/text"
)

// Intent is a short conversational act.
type Intent string

const (
	IntentNone     Intent = ""
	IntentGreeting Intent = "greeting"
	IntentThanks   Intent = "thanks"
	IntentGoodbye  Intent = "goodbye"
	IntentHelp     Intent = "help"
	IntentContact  Intent = "contact"
)

// pattern pairs an intent with its anchored prefix expression. Matching is
// anchored to the start of the message, the classifier catches openers, not
// topic keywords mid-sentence. The order is fixed, first match wins.
type pattern struct {
	intent Intent
	prefix *regexp.Regexp
}

var patterns = []pattern{
	{IntentGreeting, regexp.MustCompile(`^(hello|hi|hey|good (morning|afternoon|evening)|salam|assalam)\b`)},
	{IntentThanks, regexp.MustCompile(`^(thank|thanks|thx|shukriya)\b`)},
	{IntentGoodbye, regexp.MustCompile(`^(bye|goodbye|see you|take care|khuda hafiz|allah hafiz)\b`)},
	{IntentHelp, regexp.MustCompile(`^(help|can you help|i need help|what can you do)\b`)},
	{IntentContact, regexp.MustCompile(`^(contact|how (can|do) i (contact|reach)|customer (service|support))\b`)},
}

// responses holds the canned English reply for each intent. Immutable
// package data, translated on the way out when the user language differs.
var responses = map[Intent]string{
	IntentGreeting: "Hello! Welcome to Tripwise. Ask me anything about destinations, bookings, payments or your account.",
	IntentThanks:   "You're welcome! Is there anything else I can help you with for your trip?",
	IntentGoodbye:  "Goodbye! Have a wonderful journey, and feel free to come back anytime.",
	IntentHelp:     "I can answer questions about destinations, bookings, payments, activities, custom tours and special offers. Just ask in your own words.",
	IntentContact:  "You can reach our support team at support@tripwise.travel or +92 300 0000000, available 9am to 9pm PKT.",
}

// Classify tests a message against the ordered prefix patterns and returns
// the first matching intent, or IntentNone. Deterministic, no fuzzy
// matching here in contrast to the relevance scorer.
func Classify(message string) Intent {
	normalized := text.Normalize(message)
	if normalized == "" {
		return IntentNone
	}

	for _, p := range patterns {
		if p.prefix.MatchString(normalized) {
			return p.intent
		}
	}

	return IntentNone
}

// Response returns the canned reply for an intent.
func Response(intent Intent) (string, bool) {
	reply, ok := responses[intent]
	return reply, ok
}
