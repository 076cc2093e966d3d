package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/deepnoodle-ai/adforge"
	"github.com/deepnoodle-ai/adforge/config"
	"github.com/deepnoodle-ai/adforge/log"
	"github.com/deepnoodle-ai/adforge/media/providers/heygen"
	"github.com/deepnoodle-ai/wonton/cli"
)

type options struct {
	configPath       string
	provider         string
	model            string
	logLevel         string
	outputDir        string
	maxRounds        int
	allowPlaceholder bool
	testRender       bool
	demo             bool
}

// demoBrief is the product used by the demo command.
var demoBrief = adforge.CampaignBrief{
	ProductName: "Smart Fitness Tracker",
	Description: "A revolutionary wearable device that tracks your heart rate, sleep patterns, and daily activity with AI-powered health insights.",
	Audience:    "Health-conscious millennials aged 25-35 who want to optimize their fitness and wellness",
	Tone:        "motivational and empowering",
}

// demoDialog approves after one round of feedback and declines a second
// pass. Answers are echoed so the transcript reads like an interactive run.
func demoDialog(echo io.Writer) *adforge.ScriptedDialog {
	return adforge.NewScriptedDialog().
		Answer(adforge.PromptApproveScript, "n").
		Answer(adforge.PromptScriptFeedback, "make it more exciting").
		Fallback(adforge.PromptApproveScript, "y").
		Fallback(adforge.PromptMakeEdits, "n").
		Echo(echo)
}

// loadConfig loads the configuration and layers command line flags on top.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.provider != "" {
		cfg.Text.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.Text.Model = opts.model
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.maxRounds >= 0 {
		cfg.Approval.MaxRounds = opts.maxRounds
	}
	if opts.allowPlaceholder || opts.demo {
		cfg.Approval.AllowPlaceholder = true
	}
	if opts.testRender {
		cfg.Video.Test = true
	}
	return cfg, nil
}

func newLogger(level string) log.Logger {
	if strings.EqualFold(strings.TrimSpace(level), config.LogLevelNone) {
		return log.NewNullLogger()
	}
	return log.New(log.LevelFromString(level))
}

// newPipeline wires the text backend, the HeyGen client and the console
// into a pipeline.
func newPipeline(cfg *config.Config, dialog adforge.Dialog, stdout io.Writer, logger log.Logger) (*adforge.Pipeline, error) {
	model, err := createModel(cfg)
	if err != nil {
		return nil, err
	}
	writer := adforge.NewWriter(model)
	writer.Logger = logger

	service := heygen.New(
		heygen.WithAPIKey(cfg.Video.APIKey),
		heygen.WithBaseURL(cfg.Video.BaseURL),
		heygen.WithStatusURL(cfg.Video.StatusURL),
		heygen.WithAvatarID(cfg.Video.AvatarID),
		heygen.WithVoiceID(cfg.Video.VoiceID),
		heygen.WithLogger(logger),
	)
	renderer := adforge.NewRenderer(service, adforge.RendererOptions{
		AvatarID:         service.AvatarID(),
		VoiceID:          service.VoiceID(),
		Test:             cfg.Video.Test,
		Caption:          cfg.Video.Caption,
		OutputDir:        cfg.Output.Dir,
		AllowPlaceholder: cfg.Approval.AllowPlaceholder,
		Logger:           logger,
	})

	return &adforge.Pipeline{
		Writer:      writer,
		Dialog:      dialog,
		Renderer:    renderer,
		Console:     adforge.NewConsole(stdout),
		Logger:      logger,
		MaxRounds:   cfg.Approval.MaxRounds,
		DiffContext: 2,
	}, nil
}

func run(cliCtx *cli.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return cli.Errorf("%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Errorf("configuration: %v", err)
	}
	logger := newLogger(cfg.LogLevel)

	var dialog adforge.Dialog = adforge.NewTerminalDialog()
	if opts.demo {
		dialog = demoDialog(os.Stdout)
	}
	pipeline, err := newPipeline(cfg, dialog, os.Stdout, logger)
	if err != nil {
		return cli.Errorf("%v", err)
	}
	if opts.demo {
		brief := demoBrief
		pipeline.Brief = &brief
		pipeline.Console.Heading("adforge demo")
		pipeline.Console.Info("Using a canned brief and scripted answers.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := pipeline.Run(ctx)
	if err != nil {
		pipeline.Console.Error("%v", err)
		return cli.Errorf("run failed after %d completed video(s): %v", len(results), err)
	}
	return nil
}

func showConfig(opts options, w io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return cli.Errorf("%v", err)
	}
	fmt.Fprintf(w, "# text provider: %s\n", cfg.TextProvider())
	if err := cfg.Write(w); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(w, "# invalid: %v\n", err)
	}
	return nil
}
