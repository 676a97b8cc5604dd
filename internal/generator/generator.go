// Package generator builds the deterministic prompt templates and
// invokes the external text-generation capability.
package generator

import (
	"context"
	"fmt"
	"strings"

	"quizforge/internal/domain"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

// Params parameterize a prompt for one generation round.
type Params struct {
	Topic      string
	Count      int
	Difficulty string
	Language   string
}

// layoutInstruction pins the 6-line question layout the parser expects.
const layoutInstruction = `Format the response exactly like this:
Question: ...
a) Option 1
b) Option 2
c) Option 3
d) Option 4
Answer: option

Ensure the questions are concise, only one correct answer, and no explanations are given.`

// GeneralPrompt is the template for topic-only generation.
func GeneralPrompt(p Params) string {
	return fmt.Sprintf(
		"Generate a %d multiple choice questions on the topic '%s' with '%s' difficulty in %s.\n%s",
		p.Count, p.Topic, p.Difficulty, p.Language, layoutInstruction)
}

// NewsPrompt is the news-grounded template: the same layout, preceded by
// retrieved context the questions must draw on.
func NewsPrompt(p Params, contextText string) string {
	return fmt.Sprintf(
		"Using the following news content:\n\n%s\n\nGenerate a %d multiple choice questions on the topic '%s' with '%s' difficulty in %s.\n%s",
		contextText, p.Count, p.Topic, p.Difficulty, p.Language, layoutInstruction)
}

// Generator invokes the text-generation capability with a built prompt.
type Generator struct {
	llm domain.TextGenerator
}

func New(llm domain.TextGenerator) *Generator {
	return &Generator{llm: llm}
}

// Generate returns the reply text for a prompt. A failed call or a
// reply with no textual content is a generation failure surfaced to the
// caller; there is no automatic retry.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	reply, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		logger.Get().Error("Text generation call failed", zap.Error(err))
		return "", domain.NewGenerationFailedError(err)
	}
	if strings.TrimSpace(reply) == "" {
		logger.Get().Error("Text generation returned empty reply")
		return "", domain.NewGenerationFailedError(nil)
	}
	return reply, nil
}
