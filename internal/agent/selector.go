package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jasmeetsingh/autoposter/internal/helpers"
	"github.com/jasmeetsingh/autoposter/models"
	"github.com/jasmeetsingh/autoposter/provider"
)

// Selector picks one topic out of the candidate list with a single LLM call.
type Selector struct {
	llm         provider.ChatCompletion
	temperature float64
	logger      *log.Logger
}

// NewSelector creates a selector bound to one provider and temperature.
func NewSelector(llm provider.ChatCompletion, temperature float64, logger *log.Logger) *Selector {
	return &Selector{llm: llm, temperature: temperature, logger: logger}
}

// Pick renders the candidates into the selection prompt and parses the reply
// into a TopicDecision. A malformed reply degrades to a default decision
// built from the first candidate so the pipeline never halts on bad model
// output; transport failures propagate.
func (s *Selector) Pick(ctx context.Context, cands []models.TopicCandidate) (models.TopicDecision, error) {
	if len(cands) == 0 {
		return models.TopicDecision{}, fmt.Errorf("no candidates to pick from")
	}

	messages := []provider.Message{
		{Role: provider.RoleSystem, Content: personaPrompt},
		{Role: provider.RoleUser, Content: fmt.Sprintf(topicPickerPrompt, renderCandidates(cands))},
	}

	reply, err := s.llm.Complete(ctx, messages, s.temperature)
	if err != nil {
		return models.TopicDecision{}, fmt.Errorf("topic selection: %w", err)
	}

	decision, err := parseDecision(reply)
	if err != nil {
		s.logger.Printf("warn: topic selection reply unusable (%v), using first candidate", err)
		return defaultDecision(cands[0]), nil
	}
	return decision, nil
}

// renderCandidates produces the numbered list the picker prompt embeds.
func renderCandidates(cands []models.TopicCandidate) string {
	var b strings.Builder
	for i, c := range cands {
		fmt.Fprintf(&b, "\n%d. **%s**\n   %s\n   Source: %s\n", i+1, c.Title, c.Body, c.Source)
	}
	return b.String()
}

func parseDecision(reply string) (models.TopicDecision, error) {
	raw, err := helpers.ExtractJSON(reply)
	if err != nil {
		return models.TopicDecision{}, err
	}

	var decision models.TopicDecision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return models.TopicDecision{}, fmt.Errorf("failed to parse decision: %w", err)
	}
	if strings.TrimSpace(decision.SelectedTopic) == "" {
		return models.TopicDecision{}, fmt.Errorf("decision missing selected_topic")
	}
	return decision, nil
}

func defaultDecision(first models.TopicCandidate) models.TopicDecision {
	return models.TopicDecision{
		SelectedTopic: first.Title,
		WhySelected:   "First trending topic",
		PostAngle:     "Share thoughts on this trend",
		PostType:      models.PostTypeTrendAnalysis,
	}
}
