package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tripwise/tripwise/model"
)

// plausibility bounds: a translation of a source longer than
// plausibilityMinSourceLen chars must keep at least 1/plausibilityRatio of
// its length, anything shorter is treated as a degenerate reply and retried.
const (
	plausibilityMinSourceLen = 50
	plausibilityRatio        = 5
)

const translatorPreamble = `You are a professional translator. Translate the text you are given and return only the translation, with no explanations and no quotation marks.`

// Translator round-trips text through the external generative service.
// Translation failure is never fatal, the adapter always degrades to the
// original text.
type Translator struct {
	generator  Generator
	timeout    time.Duration
	maxRetries uint64
}

// NewTranslator creates a translator with the pipeline's timeout and retry
// bounds.
func NewTranslator(generator Generator, config model.ChatConfig) *Translator {
	retries := config.TranslationRetries
	if retries < 0 {
		retries = 0
	}
	timeout := config.ExternalTimeout
	if timeout <= 0 {
		timeout = model.DefaultChatConfig().ExternalTimeout
	}
	return &Translator{
		generator:  generator,
		timeout:    timeout,
		maxRetries: uint64(retries),
	}
}

// Translate converts input from one supported language to another. On any
// failure after the bounded retries the original text comes back unchanged
// with Translated set to false.
func (t *Translator) Translate(ctx context.Context, input string, from, to model.Language) model.Translation {
	if strings.TrimSpace(input) == "" || from == to {
		return model.Translation{Text: input, Translated: false}
	}

	prompt := fmt.Sprintf("Translate the following text from %s to %s:\n\n%s", from.Name(), to.Name(), input)

	var result string
	operation := func() error {
		callCtx, cancel := context.WithTimeout(ctx, t.timeout)
		defer cancel()

		reply, err := t.generator.Complete(callCtx, translatorPreamble, prompt)
		if err != nil {
			return err
		}

		reply = strings.TrimSpace(reply)
		if !plausible(input, reply) {
			return fmt.Errorf("implausible translation: %d chars from a %d char source", len(reply), len(input))
		}

		result = reply
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newTranslationBackOff(), t.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return model.Translation{Text: input, Translated: false}
	}

	return model.Translation{Text: result, Translated: true}
}

// plausible rejects empty replies and replies that collapsed to under 20%
// of a non-trivial source.
func plausible(source, translated string) bool {
	if translated == "" {
		return false
	}
	if len(source) > plausibilityMinSourceLen && len(translated)*plausibilityRatio < len(source) {
		return false
	}
	return true
}

func newTranslationBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
