package google

import (
	"net/http"
	"time"
)

// Option is a function that configures the Google provider.
type Option func(*Provider)

// WithAPIKey sets the API key for the provider.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.apiKey = apiKey
	}
}

// WithEndpoint overrides the Gemini API base URL.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

// WithClient sets the HTTP client used by the genai SDK.
func WithClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// WithModel sets the default model.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithMaxTokens sets the default maximum tokens.
func WithMaxTokens(maxTokens int) Option {
	return func(p *Provider) {
		p.maxTokens = maxTokens
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(p *Provider) {
		p.temperature = temperature
	}
}

// WithMaxRetries sets the maximum number of retries.
func WithMaxRetries(maxRetries int) Option {
	return func(p *Provider) {
		p.maxRetries = maxRetries
	}
}

// WithRetryBaseWait sets the base wait time for retries.
func WithRetryBaseWait(retryBaseWait time.Duration) Option {
	return func(p *Provider) {
		p.retryBaseWait = retryBaseWait
	}
}
