package main

import (
	"fmt"

	"github.com/deepnoodle-ai/adforge/config"
	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/providers"

	// Import providers to trigger their init() registration
	_ "github.com/deepnoodle-ai/adforge/providers/google"
	_ "github.com/deepnoodle-ai/adforge/providers/openai"
	_ "github.com/deepnoodle-ai/adforge/providers/openrouter"
)

// createModel creates the text backend selected by the configuration. An
// explicit provider is looked up by name; otherwise the registry matches the
// model name.
func createModel(cfg *config.Config) (llm.LLM, error) {
	opts := providers.FactoryOptions{
		Model:    cfg.Text.Model,
		Endpoint: cfg.TextEndpoint(),
		APIKey:   cfg.TextAPIKey(),
	}
	if cfg.Text.Provider != "" {
		return providers.CreateByName(cfg.Text.Provider, opts)
	}
	model := providers.CreateModel(opts)
	if model == nil {
		return nil, fmt.Errorf("no provider matches model %q", cfg.Text.Model)
	}
	return model, nil
}
