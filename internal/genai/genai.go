// Package genai provides clients for external text-generation services.
package genai

import "context"

// Generator produces text from a single prompt. Implementations make exactly
// one service call per invocation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
