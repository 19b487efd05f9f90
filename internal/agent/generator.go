package agent

import (
	"context"
	"fmt"

	"github.com/jasmeetsingh/autoposter/internal/helpers"
	"github.com/jasmeetsingh/autoposter/models"
	"github.com/jasmeetsingh/autoposter/provider"
)

// Generator writes the post for the selected topic with a single LLM call.
type Generator struct {
	llm         provider.ChatCompletion
	temperature float64
}

// NewGenerator creates a generator bound to one provider and temperature.
func NewGenerator(llm provider.ChatCompletion, temperature float64) *Generator {
	return &Generator{llm: llm, temperature: temperature}
}

// Write renders the generation prompt for the decision and returns the
// cleaned post text: whitespace trimmed and one pair of wrapping quotes
// removed when present. The prompt's length and hashtag rules are advisory;
// nothing is validated here.
func (g *Generator) Write(ctx context.Context, decision models.TopicDecision) (string, error) {
	messages := []provider.Message{
		{Role: provider.RoleSystem, Content: personaPrompt},
		{Role: provider.RoleUser, Content: fmt.Sprintf(postGeneratorPrompt,
			decision.SelectedTopic, decision.PostAngle, decision.PostType)},
	}

	reply, err := g.llm.Complete(ctx, messages, g.temperature)
	if err != nil {
		return "", fmt.Errorf("post generation: %w", err)
	}

	return helpers.TrimWrappingQuotes(reply), nil
}
