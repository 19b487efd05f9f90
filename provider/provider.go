package provider

import (
	"context"
	"fmt"
)

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatCompletion is the narrow surface the pipeline needs from an LLM
// provider: one synchronous completion per call, with the temperature chosen
// per call. Implementations never retry.
type ChatCompletion interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (string, error)
}

// TransportError is returned when the completion endpoint answers with a
// non-200 status. It carries the status code and raw response body so the
// failure can be diagnosed; callers treat it as fatal for the run.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("chat completion API returned status %d: %s", e.StatusCode, e.Body)
}
