package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/providers"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	DefaultModel       = ModelGPT4o
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultMaxRetries  = 3
)

var _ llm.LLM = &Provider{}

// Provider generates text with the OpenAI chat completions API.
type Provider struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	options     []option.RequestOption
}

func New(opts ...Option) *Provider {
	p := &Provider{
		model:       DefaultModel,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		options:     []option.RequestOption{option.WithMaxRetries(DefaultMaxRetries)},
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		p.options = append(p.options, option.WithAPIKey(key))
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = openai.NewClient(p.options...)
	return p
}

func (p *Provider) Name() string {
	return "openai"
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

	completion, err := p.client.Chat.Completions.New(ctx, p.buildParams(config))
	if err != nil {
		return nil, convertError(err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty response from openai api")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("openai returned an empty completion")
	}
	return &llm.Response{
		ID:    completion.ID,
		Model: completion.Model,
		Text:  text,
		Usage: llm.Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}, nil
}

func (p *Provider) buildParams(config *llm.Config) openai.ChatCompletionNewParams {
	model := p.model
	if config.Model != "" {
		model = config.Model
	}
	maxTokens := p.maxTokens
	if config.MaxTokens != nil {
		maxTokens = *config.MaxTokens
	}
	temperature := p.temperature
	if config.Temperature != nil {
		temperature = *config.Temperature
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if config.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(config.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(config.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	// Reasoning models only accept max_completion_tokens and the default temperature
	if isReasoningModel(model) {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	} else {
		params.MaxTokens = openai.Int(int64(maxTokens))
		params.Temperature = openai.Float(temperature)
	}
	return params
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o") || strings.HasPrefix(model, "gpt-5")
}

func convertError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		body := apiErr.Message
		if body == "" {
			body = apiErr.Error()
		}
		return providers.NewError(apiErr.StatusCode, body)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return providers.NewTransportError(err)
}
