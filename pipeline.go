package adforge

import (
	"context"
	"errors"
	"fmt"

	"github.com/deepnoodle-ai/adforge/log"
)

// RunResult holds everything one pass of the pipeline produced.
type RunResult struct {
	Brief    CampaignBrief
	Research *Research
	Approval *ApprovalResult
	Render   *RenderResult
}

// Script returns the final script of the run.
func (r *RunResult) Script() *Script {
	if r == nil || r.Approval == nil {
		return nil
	}
	return r.Approval.Script
}

// Pipeline runs brief gathering, research, drafting, approval and rendering
// in sequence, and repeats the whole sequence while the user asks for edits.
type Pipeline struct {
	Writer   *Writer
	Dialog   Dialog
	Renderer *Renderer
	Console  *Console
	Logger   log.Logger

	// Brief, when set, is used for the first run instead of prompting.
	Brief *CampaignBrief

	// MaxRounds caps approval questions per run. Zero means no cap.
	MaxRounds int

	// MaxRuns caps the number of passes. Zero means the user decides.
	MaxRuns int

	// DiffContext is passed to the approval loop.
	DiffContext int
}

func (p *Pipeline) logger() log.Logger {
	if p.Logger == nil {
		return log.NewNullLogger()
	}
	return p.Logger
}

// Run executes the pipeline until the user declines to make edits, MaxRuns
// is reached or a stage fails. Results of completed passes are returned even
// when a later pass fails.
func (p *Pipeline) Run(ctx context.Context) ([]*RunResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	var results []*RunResult
	var previous *CampaignBrief
	if p.Brief != nil {
		brief := *p.Brief
		previous = &brief
	}
	for run := 1; ; run++ {
		logger := p.logger().With("run", run)
		logger.Info("pipeline started")

		gather := run > 1 || p.Brief == nil
		result, err := p.runOnce(log.WithLogger(ctx, logger), previous, gather)
		if err != nil {
			logger.Error("pipeline failed", "error", err)
			return results, err
		}
		results = append(results, result)
		previous = &result.Brief
		logger.Info("pipeline finished", "path", result.Render.LocalPath, "placeholder", result.Render.Placeholder)

		if p.MaxRuns > 0 && run >= p.MaxRuns {
			return results, nil
		}
		again, err := Confirm(ctx, p.Dialog, &DialogInput{
			ID:      PromptMakeEdits,
			Title:   "Another pass",
			Message: "Would you like to make any edits?",
		})
		if err != nil {
			return results, err
		}
		if !again {
			p.Console.Info("Goodbye!")
			return results, nil
		}
		p.Console.Heading("Starting over")
	}
}

// RunOnce executes a single pass. A nil brief means the user is prompted.
func (p *Pipeline) RunOnce(ctx context.Context, brief *CampaignBrief) (*RunResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p.runOnce(log.WithLogger(ctx, p.logger()), brief, brief == nil)
}

func (p *Pipeline) validate() error {
	var errs []error
	if p.Writer == nil || p.Writer.Model == nil {
		errs = append(errs, errors.New("pipeline requires a writer"))
	}
	if p.Dialog == nil {
		errs = append(errs, errors.New("pipeline requires a dialog"))
	}
	if p.Renderer == nil {
		errs = append(errs, errors.New("pipeline requires a renderer"))
	}
	return errors.Join(errs...)
}

// runOnce expects the run logger in ctx.
func (p *Pipeline) runOnce(ctx context.Context, defaults *CampaignBrief, gather bool) (*RunResult, error) {
	logger := log.Ctx(ctx)
	var brief CampaignBrief
	if gather {
		var err error
		p.Console.Heading("Tell me about your product")
		brief, err = p.gatherBrief(ctx, defaults)
		if err != nil {
			return nil, &StageError{Stage: StageBrief, Err: err}
		}
	} else {
		brief = *defaults
	}
	if err := brief.Validate(); err != nil {
		return nil, &StageError{Stage: StageBrief, Err: err}
	}
	p.Console.Brief(brief, p.Renderer.AvatarID)
	result := &RunResult{Brief: brief}

	p.Console.Heading("Market research")
	p.Console.Step("Researching %s", brief.ProductName)
	research, err := p.Writer.Research(ctx, brief)
	if err != nil {
		return nil, &StageError{Stage: StageResearch, Err: err}
	}
	result.Research = research
	logger.Debug("research complete", "chars", len(research.Text))
	p.Console.Success("Research complete")

	p.Console.Heading("Ad copy")
	p.Console.Step("Writing the script")
	script, err := p.Writer.Draft(ctx, brief, research)
	if err != nil {
		return nil, &StageError{Stage: StageCopy, Err: err}
	}
	logger.Debug("script drafted", "revision", script.Revision, "cues", len(script.Cues()))

	loop := &ApprovalLoop{
		Dialog:      p.Dialog,
		Console:     p.Console,
		Logger:      logger,
		MaxRounds:   p.MaxRounds,
		DiffContext: p.DiffContext,
	}
	approval, err := loop.Run(ctx, script, func(ctx context.Context, current *Script, feedback string) (*Script, error) {
		return p.Writer.Revise(ctx, brief, research, current, feedback)
	})
	if err != nil {
		return nil, &StageError{Stage: StageApproval, Err: err}
	}
	result.Approval = approval

	p.Console.Heading("Video")
	if p.Renderer.Console == nil {
		p.Renderer.Console = p.Console
	}
	render, err := p.Renderer.Render(ctx, approval.Script)
	if err != nil {
		return nil, &StageError{Stage: StageRender, Err: err}
	}
	result.Render = render
	p.Console.Banner(render)
	return result, nil
}

func (p *Pipeline) gatherBrief(ctx context.Context, defaults *CampaignBrief) (CampaignBrief, error) {
	var prev, brief CampaignBrief
	if defaults != nil {
		prev = *defaults
	}
	questions := []struct {
		id      string
		label   string
		message string
		def     string
		dest    *string
	}{
		{PromptProductName, "product name", "What is the name of your product?", prev.ProductName, &brief.ProductName},
		{PromptDescription, "description", "Describe your product in a sentence or two:", prev.Description, &brief.Description},
		{PromptAudience, "audience", "Who is your target audience?", prev.Audience, &brief.Audience},
		{PromptTone, "tone", "What tone should the ad have? (e.g. funny, inspiring, professional)", prev.Tone, &brief.Tone},
	}

	for _, q := range questions {
		answer, err := Ask(ctx, p.Dialog, &DialogInput{
			ID:       q.id,
			Title:    "Campaign brief",
			Message:  q.message,
			Default:  q.def,
			Validate: RequireText(q.label),
		})
		if err != nil {
			return brief, fmt.Errorf("%s: %w", q.label, err)
		}
		*q.dest = answer
	}
	return brief, nil
}
