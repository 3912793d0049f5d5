// Package ollama provides an LLM provider backed by a local Ollama server.
//
// Ollama exposes its own /api/chat endpoint rather than the OpenAI wire
// format, so this provider speaks that protocol directly. JSON mode maps to
// Ollama's "format": "json" request field.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dotvoice/dot/pkg/llm"
)

// DefaultEndpoint is the default Ollama server address.
const DefaultEndpoint = "http://localhost:11434"

// Provider implements the LLM provider interface for Ollama.
type Provider struct {
	httpClient *http.Client
	endpoint   string
	model      string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithEndpoint sets the Ollama server address.
func WithEndpoint(endpoint string) ProviderOption {
	return func(p *Provider) {
		p.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithHTTPClient sets a custom HTTP client, mainly useful in tests.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// NewProvider creates a new Ollama provider for the given model.
func NewProvider(model string, opts ...ProviderOption) (*Provider, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama model name is required")
	}

	p := &Provider{
		httpClient: &http.Client{},
		endpoint:   DefaultEndpoint,
		model:      model,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatBody struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// Chat sends a single system/user prompt pair to /api/chat and returns the
// assistant's response text.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	body := chatBody{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
		Stream:  false,
		Options: chatOptions{Temperature: req.Temperature, TopP: req.TopP},
	}
	if req.JSONMode {
		body.Format = "json"
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.endpoint + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return "", &llm.StatusError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	var chatResp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Message.Content == "" {
		return "", llm.ErrMissingContent
	}

	return chatResp.Message.Content, nil
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// GetEndpoint returns the server address being used.
func (p *Provider) GetEndpoint() string {
	return p.endpoint
}
