package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/providers"
	"github.com/deepnoodle-ai/wonton/assert"
)

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-2024-08-06",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "[Close-up] Tired of guessing?"},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 20, "completion_tokens": 8, "total_tokens": 28}
}`

func newTestServer(t *testing.T, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody))
	}))
}

func TestName(t *testing.T) {
	assert.Equal(t, "openai", New().Name())
	assert.Equal(t, DefaultModel, New().Model())
}

func TestGenerate(t *testing.T) {
	var captured map[string]any
	server := newTestServer(t, &captured)
	defer server.Close()

	provider := New(WithAPIKey("sk-test"), WithEndpoint(server.URL+"/"), WithMaxRetries(0))
	resp, err := provider.Generate(context.Background(),
		llm.WithPrompt("write a script"),
		llm.WithSystemPrompt("you write ads"),
	)
	assert.NoError(t, err)
	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
	assert.Equal(t, "[Close-up] Tired of guessing?", resp.Text)
	assert.Equal(t, 20, resp.Usage.InputTokens)
	assert.Equal(t, 8, resp.Usage.OutputTokens)

	assert.Equal(t, "gpt-4o", captured["model"])
	assert.Equal(t, float64(1000), captured["max_tokens"])
	assert.Equal(t, 0.7, captured["temperature"])
	messages := captured["messages"].([]any)
	assert.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestGenerateReasoningModel(t *testing.T) {
	var captured map[string]any
	server := newTestServer(t, &captured)
	defer server.Close()

	provider := New(WithAPIKey("sk-test"), WithEndpoint(server.URL+"/"), WithMaxRetries(0))
	_, err := provider.Generate(context.Background(),
		llm.WithPrompt("hi"),
		llm.WithModel(ModelO4Mini),
	)
	assert.NoError(t, err)
	assert.Equal(t, "o4-mini", captured["model"])
	assert.Equal(t, float64(1000), captured["max_completion_tokens"])
	_, hasTemperature := captured["temperature"]
	assert.False(t, hasTemperature)
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider := New(WithAPIKey("sk-test"), WithEndpoint(server.URL+"/"), WithMaxRetries(0))
	_, err := provider.Generate(context.Background(), llm.WithPrompt("hi"))
	perr, ok := providers.AsProviderError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode())
	assert.Contains(t, perr.Body(), "Incorrect API key")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	_, err := New().Generate(context.Background())
	assert.ErrorIs(t, err, llm.ErrEmptyPrompt)
}

func TestOpenAIIntegration(t *testing.T) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("Skipping integration test: no OPENAI_API_KEY set")
	}
	resp, err := New().Generate(context.Background(), llm.WithPrompt("Say 'hello' and nothing else."))
	assert.NoError(t, err)
	assert.Contains(t, strings.ToLower(resp.Text), "hello")
}
