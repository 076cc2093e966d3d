package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/providers"
	"github.com/deepnoodle-ai/wonton/retry"
	"google.golang.org/genai"
)

var (
	DefaultModel         = ModelGemini25Flash
	DefaultMaxTokens     = 1000
	DefaultTemperature   = 0.7
	DefaultMaxRetries    = 3
	DefaultRetryBaseWait = 2 * time.Second
)

const ProviderName = "google"

var _ llm.LLM = &Provider{}

// Provider generates text with the Gemini API.
type Provider struct {
	apiKey        string
	endpoint      string
	model         string
	maxTokens     int
	temperature   float64
	maxRetries    int
	retryBaseWait time.Duration
	httpClient    *http.Client

	client *genai.Client
	mutex  sync.Mutex
}

func New(opts ...Option) *Provider {
	p := &Provider{
		apiKey:        getAPIKey(),
		model:         DefaultModel,
		maxTokens:     DefaultMaxTokens,
		temperature:   DefaultTemperature,
		maxRetries:    DefaultMaxRetries,
		retryBaseWait: DefaultRetryBaseWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func getAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

func (p *Provider) initClient(ctx context.Context) (*genai.Client, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	config := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.endpoint != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: p.endpoint}
	}
	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create google genai client: %w", err)
	}
	p.client = client
	return p.client, nil
}

func (p *Provider) Name() string {
	return ProviderName
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
	client, err := p.initClient(ctx)
	if err != nil {
		return nil, err
	}

	model := p.model
	if config.Model != "" {
		model = config.Model
	}

	var resp *genai.GenerateContentResponse
	err = retry.DoSimple(ctx, func() error {
		var genErr error
		resp, genErr = client.Models.GenerateContent(ctx, model, genai.Text(config.Prompt), p.generateConfig(config))
		if genErr != nil {
			return convertError(genErr)
		}
		return nil
	}, retry.WithMaxAttempts(p.maxRetries+1), retry.WithBackoff(p.retryBaseWait, time.Minute))
	if err != nil {
		return nil, err
	}
	return convertResponse(resp, model)
}

func (p *Provider) generateConfig(config *llm.Config) *genai.GenerateContentConfig {
	maxTokens := p.maxTokens
	if config.MaxTokens != nil {
		maxTokens = *config.MaxTokens
	}
	temperature := p.temperature
	if config.Temperature != nil {
		temperature = *config.Temperature
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(maxTokens),
	}
	if config.SystemPrompt != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(config.SystemPrompt)},
		}
	}
	return genConfig
}

func convertResponse(resp *genai.GenerateContentResponse, model string) (*llm.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Google GenAI")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("google genai returned an empty completion")
	}
	response := &llm.Response{
		ID:    resp.ResponseID,
		Model: model,
		Text:  text,
	}
	if resp.ModelVersion != "" {
		response.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		response.Usage = llm.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}
	return response, nil
}

func convertError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return providers.NewError(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return providers.NewError(apiErrPtr.Code, apiErrPtr.Message)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.MarkPermanent(err)
	}
	return providers.NewTransportError(err)
}
