package adforge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/media"
)

// fakeModel answers Generate calls with a function of the prompt.
type fakeModel struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	configs []*llm.Config
}

func (m *fakeModel) Name() string { return "fake" }

func (m *fakeModel) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	config := &llm.Config{}
	config.Apply(opts...)
	m.mu.Lock()
	m.configs = append(m.configs, config)
	m.mu.Unlock()
	text, err := m.respond(config.Prompt)
	if err != nil {
		return nil, err
	}
	return &llm.Response{Model: "fake-1", Text: text}, nil
}

func (m *fakeModel) prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.configs {
		out = append(out, c.Prompt)
	}
	return out
}

// adModel mimics a text model: research for research prompts, a script with
// cues otherwise, and a shorter script when asked for one.
func adModel() *fakeModel {
	return &fakeModel{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "marketing research expert"):
			return "Teens want gadgets that make them laugh.", nil
		case strings.Contains(prompt, "User Feedback for Improvement: shorter"):
			return "[Close-up: teen grins] Widget does X. [CTA] Get it.", nil
		default:
			return "[Scene: teen laughing at phone] Bored? Meet Widget. It does X, and it's hilarious. [CTA: product shot] Grab yours today!", nil
		}
	}}
}

// dialogFunc adapts a function to the Dialog interface.
type dialogFunc func(ctx context.Context, in *DialogInput) (*DialogOutput, error)

func (f dialogFunc) Show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	return f(ctx, in)
}

var errConnRefused = errors.New("connection refused")

// fakeVideoService returns a job id (or error) on submit and replays
// statuses on each check.
type fakeVideoService struct {
	jobID     string
	submitErr error
	statuses  []*media.OperationStatus
	submitted []*media.VideoGenerationRequest
	checks    int
}

func (s *fakeVideoService) ProviderName() string { return "fakevideo" }

func (s *fakeVideoService) GenerateVideo(ctx context.Context, req *media.VideoGenerationRequest) (*media.VideoGenerationResponse, error) {
	s.submitted = append(s.submitted, req)
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &media.VideoGenerationResponse{OperationID: s.jobID, Status: media.StatusSubmitted}, nil
}

func (s *fakeVideoService) CheckVideoOperation(ctx context.Context, id string) (*media.OperationStatus, error) {
	s.checks++
	if len(s.statuses) == 0 {
		return nil, errConnRefused
	}
	status := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	}
	return status, nil
}

// noSleep records waits without blocking.
type noSleep struct {
	waits []time.Duration
}

func (s *noSleep) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func generatedScript(text string) *Script {
	return &Script{Text: text, Revision: 1}
}
