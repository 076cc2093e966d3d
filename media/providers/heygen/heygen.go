// Package heygen submits avatar video render jobs to HeyGen and reports their
// status.
package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/deepnoodle-ai/adforge/log"
	"github.com/deepnoodle-ai/adforge/media"
	"github.com/deepnoodle-ai/adforge/providers"
)

var (
	DefaultBaseURL   = "https://api.heygen.com/v2"
	DefaultStatusURL = "https://api.heygen.com/v1/videos"
	DefaultAvatarID  = "Abigail_expressive_2024112501"
	DefaultVoiceID   = "73c0b6a2e29d4d38aca41454bf58c955"
	DefaultClient    = &http.Client{Timeout: 60 * time.Second}
)

var _ media.VideoService = &Provider{}

// Provider talks to the HeyGen v2 generate endpoint and the v1 status
// endpoint.
type Provider struct {
	apiKey    string
	baseURL   string
	statusURL string
	avatarID  string
	voiceID   string
	client    *http.Client
	logger    log.Logger
}

func New(opts ...Option) *Provider {
	p := &Provider{
		apiKey:    os.Getenv("HEYGEN_API_KEY"),
		baseURL:   DefaultBaseURL,
		statusURL: DefaultStatusURL,
		avatarID:  DefaultAvatarID,
		voiceID:   DefaultVoiceID,
		client:    DefaultClient,
		logger:    log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.baseURL == "" {
		p.baseURL = DefaultBaseURL
	}
	if p.statusURL == "" {
		p.statusURL = DefaultStatusURL
	}
	if p.avatarID == "" {
		p.avatarID = DefaultAvatarID
	}
	if p.voiceID == "" {
		p.voiceID = DefaultVoiceID
	}
	if p.client == nil {
		p.client = DefaultClient
	}
	if p.logger == nil {
		p.logger = log.NewNullLogger()
	}
	return p
}

func (p *Provider) ProviderName() string {
	return "heygen"
}

// AvatarID returns the avatar used when a request does not choose one.
func (p *Provider) AvatarID() string {
	return p.avatarID
}

// VoiceID returns the voice used when a request does not choose one.
func (p *Provider) VoiceID() string {
	return p.voiceID
}

// GenerateVideo submits the script as a render job.
func (p *Provider) GenerateVideo(ctx context.Context, req *media.VideoGenerationRequest) (*media.VideoGenerationResponse, error) {
	if err := media.ValidateVideoGenerationRequest(req); err != nil {
		return nil, err
	}

	payload := p.buildRequest(req)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	endpoint := strings.TrimRight(p.baseURL, "/") + "/video/generate"
	var result generateResponse
	if err := p.do(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		return nil, err
	}
	if result.Data == nil || result.Data.VideoID == "" {
		if msg := result.Error.String(); msg != "" {
			return nil, fmt.Errorf("%w: %s", media.ErrNoJobID, msg)
		}
		return nil, media.ErrNoJobID
	}

	p.logger.Info("render job submitted", "job_id", result.Data.VideoID, "avatar_id", payload.VideoInputs[0].Character.AvatarID)
	return &media.VideoGenerationResponse{
		OperationID: result.Data.VideoID,
		Status:      media.StatusSubmitted,
	}, nil
}

// CheckVideoOperation fetches the current status of a render job. Any status
// other than completed or failed is reported as processing.
func (p *Provider) CheckVideoOperation(ctx context.Context, operationID string) (*media.OperationStatus, error) {
	if operationID == "" {
		return nil, media.ErrNoJobID
	}
	endpoint := strings.TrimRight(p.statusURL, "/") + "/" + url.PathEscape(operationID)

	var result statusResponse
	if err := p.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	if result.Data == nil {
		return nil, fmt.Errorf("invalid response structure from status endpoint")
	}

	status := &media.OperationStatus{ID: operationID}
	switch strings.ToLower(result.Data.Status) {
	case "completed":
		status.Status = media.StatusCompleted
		status.Progress = 100
		status.VideoURL = result.Data.VideoURL
	case "failed":
		status.Status = media.StatusFailed
		status.Error = result.Data.Error.String()
		if status.Error == "" {
			status.Error = "unknown error"
		}
	default:
		status.Status = media.StatusProcessing
	}
	return status, nil
}

func (p *Provider) buildRequest(req *media.VideoGenerationRequest) *generateRequest {
	avatarID := req.AvatarID
	if avatarID == "" {
		avatarID = p.avatarID
	}
	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = p.voiceID
	}
	width, height := req.Width, req.Height
	if width == 0 || height == 0 {
		width, height = media.DefaultWidth, media.DefaultHeight
	}
	return &generateRequest{
		VideoInputs: []videoInput{{
			Character: character{Type: "avatar", AvatarID: avatarID},
			Voice:     voice{Type: "text", InputText: req.Script, VoiceID: voiceID},
		}},
		Dimension: dimension{Width: width, Height: height},
		Test:      req.Test,
		Caption:   req.Caption,
	}
}

func (p *Provider) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return providers.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return providers.NewError(resp.StatusCode, string(data))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
