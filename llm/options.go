package llm

import (
	"github.com/deepnoodle-ai/adforge/log"
)

// Option is a function that configures a Generate call.
type Option func(*Config)

// Config holds the parameters of a single Generate call.
type Config struct {
	Model        string
	SystemPrompt string
	Prompt       string
	MaxTokens    *int
	Temperature  *float64
	Logger       log.Logger
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// WithModel overrides the provider's model for this call.
func WithModel(model string) Option {
	return func(config *Config) {
		config.Model = model
	}
}

// WithPrompt sets the user message.
func WithPrompt(prompt string) Option {
	return func(config *Config) {
		config.Prompt = prompt
	}
}

// WithSystemPrompt sets the system prompt.
func WithSystemPrompt(systemPrompt string) Option {
	return func(config *Config) {
		config.SystemPrompt = systemPrompt
	}
}

// WithMaxTokens sets the max tokens.
func WithMaxTokens(maxTokens int) Option {
	return func(config *Config) {
		config.MaxTokens = &maxTokens
	}
}

// WithTemperature sets the temperature.
func WithTemperature(temperature float64) Option {
	return func(config *Config) {
		config.Temperature = &temperature
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(config *Config) {
		config.Logger = logger
	}
}
