package compose

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tripwise/tripwise/helper"
	"github.com/tripwise/tripwise/model"
)

// domainPreamble scopes the generative service to the travel domain.
const domainPreamble = `You are the virtual travel assistant of Tripwise, a travel booking platform for destinations across Pakistan. You answer questions about destinations, bookings, payments, accounts, activities, custom tours and special offers.`

// compositionInstructions tell the service how to use the reference material.
const compositionInstructions = `Instructions:
- Ground your answer in the reference material above.
- Never mention the reference material or that you were given any material.
- If the material does not cover the question, say honestly that you are not sure and suggest contacting support.
- Answer in a friendly, concise tone.`

// aiPreambles are self-referential openers stripped from replies.
var aiPreambles = []string{
	"as an ai language model,",
	"as an ai assistant,",
	"as an ai,",
	"as a language model,",
	"as a virtual assistant,",
}

// fallbackReplies holds the apologetic default per supported language, used
// whenever generation fails or times out.
var fallbackReplies = map[model.Language]string{
	model.LanguageEnglish: "I'm sorry, I'm having trouble answering right now. Please try again in a moment or contact our support team.",
	model.LanguageSpanish: "Lo siento, ahora mismo no puedo responder. Inténtalo de nuevo en un momento o contacta con nuestro equipo de soporte.",
	model.LanguageFrench:  "Désolé, je ne peux pas répondre pour le moment. Réessayez dans un instant ou contactez notre équipe d'assistance.",
	model.LanguageGerman:  "Entschuldigung, ich kann gerade nicht antworten. Bitte versuchen Sie es gleich noch einmal oder wenden Sie sich an unser Support-Team.",
	model.LanguageChinese: "抱歉，我现在无法回答。请稍后再试，或联系我们的客服团队。",
	model.LanguageUrdu:    "معذرت، میں ابھی جواب نہیں دے پا رہا۔ براہ کرم تھوڑی دیر بعد دوبارہ کوشش کریں یا ہماری سپورٹ ٹیم سے رابطہ کریں۔",
}

// Composer produces grounded answers from ranked knowledge entries via the
// external generative service.
type Composer struct {
	generator Generator
	timeout   time.Duration
}

// NewComposer creates a new composer. The timeout bounds every external
// call.
func NewComposer(generator Generator, timeout time.Duration) *Composer {
	if timeout <= 0 {
		timeout = model.DefaultChatConfig().ExternalTimeout
	}
	return &Composer{
		generator: generator,
		timeout:   timeout,
	}
}

// Compose asks the generative service for an answer grounded in the ranked
// entries and optional supplementary snippets. The returned error marks a
// degraded-service condition, callers recover with FallbackReply.
func (c *Composer) Compose(ctx context.Context, query string, candidates []model.ScoredCandidate, snippets []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	system := BuildSystemPrompt(candidates, snippets)

	reply, err := c.generator.Complete(ctx, system, query)
	if err != nil {
		return "", helper.NewError("generate answer", err)
	}

	reply = StripAIPreamble(reply)
	if reply == "" {
		return "", helper.NewError("generate answer", fmt.Errorf("empty reply from generative service"))
	}

	return reply, nil
}

// BuildSystemPrompt assembles the system prompt deterministically: domain
// preamble, ranked entries as question/answer/category blocks, optional
// snippets, composition instructions.
func BuildSystemPrompt(candidates []model.ScoredCandidate, snippets []string) string {
	var sb strings.Builder
	sb.WriteString(domainPreamble)
	sb.WriteString("\n\nReference material:\n")

	if len(candidates) == 0 {
		sb.WriteString("(no matching entries)\n")
	}
	for i, candidate := range candidates {
		if candidate.Entry == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n[%d] Category: %s\nQ: %s\nA: %s\n",
			i+1, candidate.Entry.Category, candidate.Entry.Question, candidate.Entry.Answer))
	}

	for _, snippet := range snippets {
		if strings.TrimSpace(snippet) == "" {
			continue
		}
		sb.WriteString("\nNote: ")
		sb.WriteString(snippet)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(compositionInstructions)
	return sb.String()
}

// StripAIPreamble removes known self-referential openers from a reply and
// re-capitalizes the remainder.
func StripAIPreamble(reply string) string {
	trimmed := strings.TrimSpace(reply)
	lower := strings.ToLower(trimmed)

	for _, preamble := range aiPreambles {
		if strings.HasPrefix(lower, preamble) {
			trimmed = strings.TrimSpace(trimmed[len(preamble):])
			break
		}
	}

	if trimmed == "" {
		return ""
	}

	runes := []rune(trimmed)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// FallbackReply returns the apologetic default for a language.
func FallbackReply(lang model.Language) string {
	if reply, ok := fallbackReplies[lang]; ok {
		return reply
	}
	return fallbackReplies[model.LanguageEnglish]
}
