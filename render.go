package adforge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/adforge/log"
	"github.com/deepnoodle-ai/adforge/media"
)

// PlaceholderVideoURL is reported instead of a real video when placeholder
// mode is enabled and rendering fails.
const PlaceholderVideoURL = "https://demo.heygen.com/video/demo123.mp4"

// RenderResult describes the rendered asset of a run.
type RenderResult struct {
	JobID     string `json:"job_id,omitempty"`
	RemoteURL string `json:"remote_url"`
	LocalPath string `json:"local_path,omitempty"`

	// Placeholder is true when RemoteURL is synthetic. Nothing was
	// downloaded in that case.
	Placeholder bool `json:"placeholder,omitempty"`

	// Cause is the failure that triggered placeholder mode.
	Cause error `json:"-"`
}

// RendererOptions configures NewRenderer. Zero values select defaults.
type RendererOptions struct {
	AvatarID         string
	VoiceID          string
	Width            int
	Height           int
	Test             bool
	Caption          bool
	OutputDir        string
	PollInterval     time.Duration
	PollMaxAttempts  int
	AllowPlaceholder bool
	Logger           log.Logger
}

// Renderer submits an approved script, waits for the job and downloads the
// finished video.
type Renderer struct {
	Generator  media.VideoGenerator
	Poller     *media.Poller
	Downloader *media.Downloader
	Console    *Console
	Logger     log.Logger

	AvatarID string
	VoiceID  string
	Width    int
	Height   int
	Test     bool
	Caption  bool

	// AllowPlaceholder substitutes PlaceholderVideoURL when submission or
	// polling fails instead of failing the run. Download and local I/O
	// errors are fatal either way.
	AllowPlaceholder bool
}

// NewRenderer wires a Renderer around a video service.
func NewRenderer(service media.VideoService, opts RendererOptions) *Renderer {
	poller := media.NewPoller(service)
	if opts.PollInterval > 0 {
		poller.Interval = opts.PollInterval
	}
	if opts.PollMaxAttempts > 0 {
		poller.MaxAttempts = opts.PollMaxAttempts
	}
	poller.Logger = opts.Logger
	return &Renderer{
		Generator:        service,
		Poller:           poller,
		Downloader:       &media.Downloader{Dir: opts.OutputDir, Logger: opts.Logger},
		Logger:           opts.Logger,
		AvatarID:         opts.AvatarID,
		VoiceID:          opts.VoiceID,
		Width:            opts.Width,
		Height:           opts.Height,
		Test:             opts.Test,
		Caption:          opts.Caption,
		AllowPlaceholder: opts.AllowPlaceholder,
	}
}

func (r *Renderer) logger() log.Logger {
	if r.Logger == nil {
		return log.NewNullLogger()
	}
	return r.Logger
}

// Render turns script into a local video file. The script must have been
// produced by at least one generation step.
func (r *Renderer) Render(ctx context.Context, script *Script) (*RenderResult, error) {
	if !script.Generated() {
		return nil, ErrScriptNotGenerated
	}
	if r.Generator == nil || r.Poller == nil || r.Downloader == nil {
		return nil, errors.New("renderer is not fully configured")
	}
	logger := r.logger()

	width, height := r.Width, r.Height
	if width == 0 || height == 0 {
		width, height = media.DefaultWidth, media.DefaultHeight
	}

	r.Console.Step("Submitting the script to %s", r.Generator.ProviderName())
	resp, err := r.Generator.GenerateVideo(ctx, &media.VideoGenerationRequest{
		Script:   script.Text,
		AvatarID: r.AvatarID,
		VoiceID:  r.VoiceID,
		Width:    width,
		Height:   height,
		Test:     r.Test,
		Caption:  r.Caption,
	})
	if err == nil && resp.OperationID == "" {
		err = media.ErrNoJobID
	}
	if err != nil {
		return r.fallback(ctx, "", fmt.Errorf("submit render job: %w", err))
	}
	jobID := resp.OperationID
	logger.Info("render job submitted", "job_id", jobID)
	r.Console.Success("Render job submitted: %s", jobID)

	r.Console.Waiting("Waiting for the video to render (checking every %s)", r.Poller.Interval)
	url, err := r.poller().Wait(ctx, jobID)
	if err != nil {
		return r.fallback(ctx, jobID, fmt.Errorf("wait for render job: %w", err))
	}
	r.Console.Success("Video rendered")

	r.Console.Step("Downloading the video")
	path, err := r.Downloader.Download(ctx, url, jobID)
	if err != nil {
		return nil, fmt.Errorf("download video: %w", err)
	}
	logger.Info("video saved", "job_id", jobID, "path", path)
	return &RenderResult{JobID: jobID, RemoteURL: url, LocalPath: path}, nil
}

// poller returns a copy of r.Poller that reports every status check on the
// console in addition to any hooks the caller installed.
func (r *Renderer) poller() *media.Poller {
	p := *r.Poller
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = media.DefaultPollMaxAttempts
	}
	onStatus, onError := p.OnStatus, p.OnError
	p.OnStatus = func(attempt int, status *media.OperationStatus) {
		r.Console.Waiting("Status: %s (attempt %d/%d)", status.Status, attempt, maxAttempts)
		if onStatus != nil {
			onStatus(attempt, status)
		}
	}
	p.OnError = func(attempt int, err error) {
		r.Console.Warn("Status check failed (attempt %d/%d): %v", attempt, maxAttempts, err)
		if onError != nil {
			onError(attempt, err)
		}
	}
	return &p
}

func (r *Renderer) fallback(ctx context.Context, jobID string, err error) (*RenderResult, error) {
	if !r.AllowPlaceholder || ctx.Err() != nil {
		return nil, err
	}
	r.logger().Warn("rendering failed, using placeholder video", "job_id", jobID, "error", err)
	r.Console.Error("%v", err)
	r.Console.Warn("Using a PLACEHOLDER video URL. No real video was produced.")
	return &RenderResult{
		JobID:       jobID,
		RemoteURL:   PlaceholderVideoURL,
		Placeholder: true,
		Cause:       err,
	}, nil
}
