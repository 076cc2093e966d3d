package openrouter

import (
	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/providers"
)

func init() {
	// Models with "/" are OpenRouter format (e.g., "openai/gpt-4o", "google/gemini-2.5-pro")
	providers.Register(providers.ProviderEntry{
		Name:    "openrouter",
		Match:   providers.ContainsMatcher("/"),
		Factory: factory,
	})
	providers.SetFallback("openrouter", factory)
}

func factory(opts providers.FactoryOptions) llm.LLM {
	var options []Option
	if opts.Model != "" {
		options = append(options, WithModel(opts.Model))
	}
	if opts.Endpoint != "" {
		options = append(options, WithEndpoint(opts.Endpoint))
	}
	if opts.APIKey != "" {
		options = append(options, WithAPIKey(opts.APIKey))
	}
	return New(options...)
}
