package ai

import (
	"context"
)

// Generator defines the contract for the text-generation capability used by
// the pipeline. This interface allows for swapping different AI providers
// (Gemini, OpenAI, etc.) in the future. Implementations must be safe for
// concurrent use.
type Generator interface {
	// GenerateJSON sends a prompt expecting a single JSON document back and
	// returns the raw JSON bytes with any markdown fencing stripped.
	GenerateJSON(ctx context.Context, prompt string) ([]byte, error)

	// GenerateText sends a prompt expecting free-form prose back.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
