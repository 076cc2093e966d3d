package llm

import (
	"context"
	"errors"
	"strings"
)

// LLM is a text-generation backend.
type LLM interface {
	// Name identifies the provider, e.g. "openrouter".
	Name() string

	// Generate sends one prompt and returns the first completion.
	Generate(ctx context.Context, opts ...Option) (*Response, error)
}

// ErrEmptyPrompt is returned when Generate is called without a prompt.
var ErrEmptyPrompt = errors.New("prompt is required and cannot be empty")

// Validate checks that the configuration describes a usable request.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Prompt) == "" {
		return ErrEmptyPrompt
	}
	if c.MaxTokens != nil && *c.MaxTokens <= 0 {
		return errors.New("max tokens must be positive")
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return errors.New("temperature must be between 0 and 2")
	}
	return nil
}
