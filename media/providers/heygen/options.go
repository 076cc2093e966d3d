package heygen

import (
	"net/http"

	"github.com/deepnoodle-ai/adforge/log"
)

// Option is a function that configures the Provider
type Option func(*Provider)

// WithAPIKey sets the HeyGen API key.
func WithAPIKey(apiKey string) Option {
	return func(p *Provider) {
		p.apiKey = apiKey
	}
}

// WithBaseURL sets the base URL of the generate API (v2).
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithStatusURL sets the URL prefix of the video status API (v1).
func WithStatusURL(statusURL string) Option {
	return func(p *Provider) {
		p.statusURL = statusURL
	}
}

// WithAvatarID sets the default avatar.
func WithAvatarID(avatarID string) Option {
	return func(p *Provider) {
		p.avatarID = avatarID
	}
}

// WithVoiceID sets the default voice.
func WithVoiceID(voiceID string) Option {
	return func(p *Provider) {
		p.voiceID = voiceID
	}
}

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}
