package openai

import (
	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/providers"
)

func init() {
	providers.Register(providers.ProviderEntry{
		Name:    "openai",
		Match:   providers.PrefixesMatcher("gpt-", "o1", "o3", "o4", "chatgpt-"),
		Factory: factory,
	})
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
