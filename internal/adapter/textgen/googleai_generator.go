package textgen

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GoogleAIGenerator implements domain.TextGenerator backed by a Google AI
// chat model via langchaingo.
type GoogleAIGenerator struct {
	llm llms.Model
}

// NewGoogleAIGenerator creates a generator bound to the given model.
func NewGoogleAIGenerator(ctx context.Context, apiKey, modelName string) (*GoogleAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google AI API key cannot be empty")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}

	return &GoogleAIGenerator{llm: llm}, nil
}

// Generate sends the prompt to the model and returns the raw completion text.
func (g *GoogleAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("google AI completion failed: %w", err)
	}
	return reply, nil
}
