package ollama

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

func newTestServer(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewProvider("llama3.1",
		WithEndpoint(server.URL),
		WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return provider
}

func TestChatSuccess(t *testing.T) {
	var gotBody map[string]any
	provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "risposta"},
		})
	})

	text, err := provider.Chat(context.Background(), llm.ChatRequest{
		SystemPrompt: "sys",
		UserPrompt:   "user",
		Temperature:  0.2,
		TopP:         0.8,
	})
	require.NoError(t, err)
	assert.Equal(t, "risposta", text)

	assert.Equal(t, "llama3.1", gotBody["model"])
	assert.Equal(t, false, gotBody["stream"])
	assert.Nil(t, gotBody["format"], "format only set in JSON mode")

	options, ok := gotBody["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.2, options["temperature"])
	assert.Equal(t, 0.8, options["top_p"])
}

func TestChatJSONMode(t *testing.T) {
	var gotBody map[string]any
	provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "{}"},
		})
	})

	_, err := provider.Chat(context.Background(), llm.ChatRequest{JSONMode: true})
	require.NoError(t, err)
	assert.Equal(t, "json", gotBody["format"])
}

func TestChatStatusError(t *testing.T) {
	provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("model not found"))
	})

	_, err := provider.Chat(context.Background(), llm.ChatRequest{})
	var statusErr *llm.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "model not found")
}

func TestChatMissingContent(t *testing.T) {
	provider := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{}})
	})

	_, err := provider.Chat(context.Background(), llm.ChatRequest{})
	assert.ErrorIs(t, err, llm.ErrMissingContent)
}

func TestNewProviderRequiresModel(t *testing.T) {
	_, err := NewProvider("")
	require.Error(t, err)
}

func TestWithEndpointTrimsSlash(t *testing.T) {
	provider, err := NewProvider("llama3.1", WithEndpoint("http://host:11434/"))
	require.NoError(t, err)
	assert.Equal(t, "http://host:11434", provider.GetEndpoint())
}
