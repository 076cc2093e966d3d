package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/providers"
	"github.com/deepnoodle-ai/wonton/retry"
)

var (
	DefaultModel         = ModelClaudeSonnet45
	DefaultEndpoint      = "https://openrouter.ai/api/v1/chat/completions"
	DefaultMaxTokens     = 1000
	DefaultTemperature   = 0.7
	DefaultClient        = &http.Client{Timeout: 300 * time.Second}
	DefaultMaxRetries    = 3
	DefaultRetryBaseWait = 2 * time.Second
	DefaultSiteURL       = "http://localhost:3000"
	DefaultSiteName      = "Ad Video Generator"
)

var _ llm.LLM = &Provider{}

// Provider calls the OpenRouter chat completions endpoint.
type Provider struct {
	client        *http.Client
	apiKey        string
	endpoint      string
	model         string
	maxTokens     int
	temperature   float64
	maxRetries    int
	retryBaseWait time.Duration
	siteURL       string
	siteName      string
}

func New(opts ...Option) *Provider {
	p := &Provider{
		apiKey:        getAPIKey(),
		endpoint:      DefaultEndpoint,
		client:        DefaultClient,
		model:         DefaultModel,
		maxTokens:     DefaultMaxTokens,
		temperature:   DefaultTemperature,
		maxRetries:    DefaultMaxRetries,
		retryBaseWait: DefaultRetryBaseWait,
		siteURL:       DefaultSiteURL,
		siteName:      DefaultSiteName,
	}
	for _, opt := range opts {
		opt(p)
	}

	// Wrap the client so every request carries the attribution headers
	p.client = &http.Client{
		Timeout: p.client.Timeout,
		Transport: &openRouterTransport{
			underlying: p.client.Transport,
			siteURL:    p.siteURL,
			siteName:   p.siteName,
		},
	}
	return p
}

func getAPIKey() string {
	return os.Getenv("OPENROUTER_API_KEY")
}

func (p *Provider) Name() string {
	return "openrouter"
}

// Model returns the default model used when a call does not override it.
func (p *Provider) Model() string {
	return p.model
}

func (p *Provider) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	config := &llm.Config{}
	config.Apply(opts...)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	request := p.buildRequest(config)
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	var result Response
	err = retry.DoSimple(ctx, func() error {
		req, err := p.createRequest(ctx, body)
		if err != nil {
			return retry.MarkPermanent(err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return providers.NewTransportError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode == http.StatusTooManyRequests && config.Logger != nil {
				config.Logger.Warn("rate limit exceeded",
					"status", resp.StatusCode, "body", string(body))
			}
			return providers.NewError(resp.StatusCode, string(body))
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
		return nil
	}, retry.WithMaxAttempts(p.maxRetries+1), retry.WithBackoff(p.retryBaseWait, time.Minute))
	if err != nil {
		return nil, err
	}

	if result.Error != nil {
		return nil, fmt.Errorf("openrouter error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openrouter api")
	}
	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("openrouter returned an empty completion")
	}

	model := result.Model
	if model == "" {
		model = request.Model
	}
	return &llm.Response{
		ID:    result.ID,
		Model: model,
		Text:  text,
		Usage: llm.Usage{
			InputTokens:  result.Usage.PromptTokens,
			OutputTokens: result.Usage.CompletionTokens,
		},
	}, nil
}

func (p *Provider) buildRequest(config *llm.Config) Request {
	req := Request{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}
	if config.Model != "" {
		req.Model = config.Model
	}
	if config.MaxTokens != nil {
		req.MaxTokens = *config.MaxTokens
	}
	if config.Temperature != nil {
		req.Temperature = *config.Temperature
	}
	if config.SystemPrompt != "" {
		req.Messages = append(req.Messages, Message{Role: "system", Content: config.SystemPrompt})
	}
	req.Messages = append(req.Messages, Message{Role: "user", Content: config.Prompt})
	return req
}

func (p *Provider) createRequest(ctx context.Context, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// openRouterTransport is a custom http.RoundTripper that adds OpenRouter-specific headers
type openRouterTransport struct {
	underlying http.RoundTripper
	siteURL    string
	siteName   string
}

func (t *openRouterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	if t.siteName != "" {
		req.Header.Set("X-Title", t.siteName)
	}
	transport := t.underlying
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}
