// Package llm provides abstractions for LLM provider integration.
//
// Providers handle API communication with chat-completion services and
// return plain response text. This design keeps providers focused on LLM
// concerns without coupling them to pipeline-level orchestration.
//
// The agent layer is responsible for:
// - Building system and user prompts
// - Parsing structured responses
// - Deciding whether a failed call is fatal or recoverable
//
// This separation allows providers to be:
// - Reusable outside the note pipeline (CLI tools, batch processing, etc.)
// - Testable independently of agent logic
// - Simpler to implement and maintain
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingContent is returned when a provider responds successfully but
// the response carries no message content.
var ErrMissingContent = errors.New("llm: response contains no content")

// StatusError is returned when the provider answers with a non-success HTTP
// status. It carries the provider's error body so callers can surface the
// upstream detail.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: API request failed with status %d: %s", e.StatusCode, e.Body)
}

// ChatRequest holds the parameters for a single chat call.
//
// Temperature and TopP are expected in [0, 1]. When JSONMode is set the
// provider asks the model to emit a single valid JSON object.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	TopP         float64
	JSONMode     bool
}

// Provider defines the interface for chat-completion integrations.
//
// Chat sends one system/user prompt pair and returns the assistant's full
// response text. Errors are distinguishable by type:
//   - transport failures are returned wrapped, reachable via errors.As with
//     the underlying net error
//   - non-success HTTP statuses produce a *StatusError carrying the
//     provider's error body
//   - a well-formed response with no content yields ErrMissingContent
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
