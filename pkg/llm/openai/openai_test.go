package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotvoice/dot/pkg/llm"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Provider) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewProvider("test-key",
		WithBaseURL(server.URL),
		WithModel("gpt-4o-mini"),
		WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return server, provider
}

func TestChatSuccess(t *testing.T) {
	var gotBody map[string]any
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "ciao"}},
			},
		})
	})

	text, err := provider.Chat(context.Background(), llm.ChatRequest{
		SystemPrompt: "sys",
		UserPrompt:   "user",
		Temperature:  0.3,
		TopP:         0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "ciao", text)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, 0.3, gotBody["temperature"])
	assert.Equal(t, 0.9, gotBody["top_p"])
	assert.Nil(t, gotBody["response_format"], "JSON mode off by default")

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
}

func TestChatJSONMode(t *testing.T) {
	var gotBody map[string]any
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"notes": []}`}},
			},
		})
	})

	_, err := provider.Chat(context.Background(), llm.ChatRequest{JSONMode: true})
	require.NoError(t, err)

	format, ok := gotBody["response_format"].(map[string]any)
	require.True(t, ok, "response_format must be set in JSON mode")
	assert.Equal(t, "json_object", format["type"])
}

func TestChatStatusError(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	})

	_, err := provider.Chat(context.Background(), llm.ChatRequest{})
	require.Error(t, err)

	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "rate limited")
}

func TestChatMissingContent(t *testing.T) {
	_, provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := provider.Chat(context.Background(), llm.ChatRequest{})
	assert.ErrorIs(t, err, llm.ErrMissingContent)
}

func TestNewProviderRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewProvider("")
	require.Error(t, err)
}

func TestNewProviderEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	provider, err := NewProvider("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, provider.GetBaseURL())
}
