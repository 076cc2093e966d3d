package adforge

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/adforge/llm"
	"github.com/deepnoodle-ai/adforge/log"
)

// Generation parameters shared by every text request.
const (
	GenerationMaxTokens   = 1000
	GenerationTemperature = 0.7
)

// Writer produces research and ad scripts with a text model.
type Writer struct {
	Model  llm.LLM
	Logger log.Logger
}

// NewWriter returns a Writer backed by model.
func NewWriter(model llm.LLM) *Writer {
	return &Writer{Model: model}
}

func (w *Writer) logger() log.Logger {
	if w.Logger == nil {
		return log.NewNullLogger()
	}
	return w.Logger
}

func (w *Writer) generate(ctx context.Context, prompt string) (*llm.Response, error) {
	resp, err := w.Model.Generate(ctx,
		llm.WithPrompt(prompt),
		llm.WithMaxTokens(GenerationMaxTokens),
		llm.WithTemperature(GenerationTemperature),
		llm.WithLogger(w.logger()),
	)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return nil, fmt.Errorf("%s returned an empty completion", w.Model.Name())
	}
	w.logger().Debug("text generated",
		"provider", w.Model.Name(),
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

// Research produces market research for the brief.
func (w *Writer) Research(ctx context.Context, brief CampaignBrief) (*Research, error) {
	prompt, err := ResearchPrompt(brief)
	if err != nil {
		return nil, err
	}
	resp, err := w.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("market research: %w", err)
	}
	return &Research{Text: resp.Text, Model: resp.Model}, nil
}

// Draft writes the first script for the brief.
func (w *Writer) Draft(ctx context.Context, brief CampaignBrief, research *Research) (*Script, error) {
	return w.write(ctx, brief, research, "", 0)
}

// Revise rewrites the script according to feedback. The previous script is
// not modified.
func (w *Writer) Revise(ctx context.Context, brief CampaignBrief, research *Research, previous *Script, feedback string) (*Script, error) {
	revision := 0
	if previous != nil {
		revision = previous.Revision
	}
	return w.write(ctx, brief, research, feedback, revision)
}

func (w *Writer) write(ctx context.Context, brief CampaignBrief, research *Research, feedback string, revision int) (*Script, error) {
	if research == nil {
		research = &Research{}
	}
	prompt, err := CopyPrompt(brief, *research, feedback)
	if err != nil {
		return nil, err
	}
	resp, err := w.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("ad copy: %w", err)
	}
	return &Script{Text: resp.Text, Revision: revision + 1, Feedback: feedback}, nil
}
