package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/wonton/assert"
)

type namedLLM struct {
	name string
	opts FactoryOptions
}

func (n *namedLLM) Name() string { return n.name }

func (n *namedLLM) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	return &llm.Response{Text: n.name}, nil
}

func factoryFor(name string) ProviderFactory {
	return func(opts FactoryOptions) llm.LLM {
		return &namedLLM{name: name, opts: opts}
	}
}

func TestRegistryCreateModel(t *testing.T) {
	r := &Registry{}
	r.Register(ProviderEntry{Name: "google", Match: PrefixMatcher("gemini-"), Factory: factoryFor("google")})
	r.Register(ProviderEntry{Name: "openai", Match: PrefixesMatcher("gpt-", "o3"), Factory: factoryFor("openai")})
	r.Register(ProviderEntry{Name: "openrouter", Match: ContainsMatcher("/"), Factory: factoryFor("openrouter")})

	tests := []struct {
		model    string
		expected string
	}{
		{"gemini-2.5-flash", "google"},
		{"GPT-4o", "openai"},
		{"o3-mini", "openai"},
		{"anthropic/claude-sonnet-4-5", "openrouter"},
	}
	for _, tc := range tests {
		t.Run(tc.model, func(t *testing.T) {
			model := r.CreateModel(FactoryOptions{Model: tc.model})
			assert.NotNil(t, model)
			assert.Equal(t, tc.expected, model.Name())
		})
	}

	assert.Nil(t, r.CreateModel(FactoryOptions{Model: "mystery"}))

	assert.Equal(t, "", r.Resolve("mystery"))
	r.SetFallback("fallback", factoryFor("fallback"))
	assert.Equal(t, "fallback", r.CreateModel(FactoryOptions{Model: "mystery"}).Name())
}

func TestRegistryResolveAgreesWithCreateModel(t *testing.T) {
	r := &Registry{}
	r.Register(ProviderEntry{Name: "google", Match: PrefixMatcher("gemini-"), Factory: factoryFor("google")})
	r.Register(ProviderEntry{Name: "openai", Match: PrefixesMatcher("gpt-", "o3"), Factory: factoryFor("openai")})
	r.Register(ProviderEntry{Name: "openrouter", Match: ContainsMatcher("/"), Factory: factoryFor("openrouter")})
	r.SetFallback("openrouter", factoryFor("openrouter"))

	for _, model := range []string{"", "gemini-2.5-flash", "GPT-4o", "o3-mini", "openai/gpt-4o", "mystery"} {
		assert.Equal(t, r.CreateModel(FactoryOptions{Model: model}).Name(), r.Resolve(model), model)
	}
	assert.Equal(t, "google", r.Resolve("gemini-2.5-flash"))
	assert.Equal(t, "openai", r.Resolve("GPT-4o"))
	assert.Equal(t, "openrouter", r.Resolve(""))
}

func TestRegistryCreateByName(t *testing.T) {
	r := &Registry{}
	r.Register(ProviderEntry{Name: "openrouter", Match: ContainsMatcher("/"), Factory: factoryFor("openrouter")})
	r.Register(ProviderEntry{Name: "google", Match: PrefixMatcher("gemini-"), Factory: factoryFor("google")})

	model, err := r.CreateByName("OpenRouter", FactoryOptions{Model: "x", APIKey: "k"})
	assert.NoError(t, err)
	assert.Equal(t, "openrouter", model.Name())
	assert.Equal(t, "k", model.(*namedLLM).opts.APIKey)

	_, err = r.CreateByName("nope", FactoryOptions{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "google, openrouter")

	assert.Equal(t, []string{"google", "openrouter"}, r.Names())
}

func TestProviderError(t *testing.T) {
	t.Run("http status", func(t *testing.T) {
		err := NewError(401, `{"error":"bad key"}`)
		perr, ok := AsProviderError(err)
		assert.True(t, ok)
		assert.Equal(t, 401, perr.StatusCode())
		assert.Equal(t, `{"error":"bad key"}`, perr.Body())
		assert.Contains(t, perr.Error(), "status 401")
	})

	t.Run("retryable status is not permanent", func(t *testing.T) {
		err := NewError(429, "slow down")
		perr, ok := err.(*ProviderError)
		assert.True(t, ok)
		assert.Equal(t, 429, perr.StatusCode())
	})

	t.Run("transport", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := fmt.Errorf("calling openrouter: %w", NewTransportError(cause))
		perr, ok := AsProviderError(err)
		assert.True(t, ok)
		assert.Equal(t, 0, perr.StatusCode())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("not a provider error", func(t *testing.T) {
		_, ok := AsProviderError(errors.New("plain"))
		assert.False(t, ok)
	})
}
