// Package compose assembles grounded prompts for the external generative
// service and round-trips text through it for translation.
package compose

import "context"

// Generator is the boundary to the external generative text service. The
// core only assembles prompts and post-processes replies, it never
// generates text itself.
type Generator interface {
	// Complete returns the model reply for a system preamble and a user
	// prompt. Implementations are expected to honor ctx cancellation.
	Complete(ctx context.Context, system string, prompt string) (string, error)
}

// GenerateFunc adapts a plain function to the Generator interface.
type GenerateFunc func(ctx context.Context, system string, prompt string) (string, error)

// Complete calls the wrapped function.
func (f GenerateFunc) Complete(ctx context.Context, system string, prompt string) (string, error) {
	return f(ctx, system, prompt)
}
