package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"
)

func main() {
	app := cli.New("adforge").
		Description("Turn a product description into a short-form ad video").
		Version("0.1.0").
		GlobalFlags(
			cli.String("config", "c").
				Default("").
				Env("ADFORGE_CONFIG").
				Help("Path to a YAML or JSON config file"),
			cli.String("provider", "").
				Help("Text provider to use (openrouter, openai, google)"),
			cli.String("model", "m").
				Help("Text model to use (e.g. 'anthropic/claude-sonnet-4.5')"),
			cli.String("log-level", "").
				Help("Log level to use (none, debug, info, warn, error)"),
			cli.String("output-dir", "o").
				Help("Directory downloaded videos are written to"),
			cli.Int("max-rounds", "").
				Default(-1).
				Help("Maximum approval rounds per run (0 = unlimited)"),
			cli.Bool("allow-placeholder", "").
				Default(false).
				Help("Report a placeholder video instead of failing when rendering fails"),
			cli.Bool("test-render", "").
				Default(false).
				Help("Submit render jobs in HeyGen test mode"),
		)

	app.Main().Run(func(ctx *cli.Context) error {
		return run(ctx, parseOptions(ctx))
	})

	app.Command("demo").
		Description("Run the pipeline with a canned brief and scripted answers").
		Run(func(ctx *cli.Context) error {
			opts := parseOptions(ctx)
			opts.demo = true
			return run(ctx, opts)
		})

	app.Command("config").
		Description("Print the effective configuration with secrets redacted").
		Run(func(ctx *cli.Context) error {
			return showConfig(parseOptions(ctx), os.Stdout)
		})

	if err := app.Execute(); err != nil {
		if cli.IsHelpRequested(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

func parseOptions(ctx *cli.Context) options {
	return options{
		configPath:       ctx.String("config"),
		provider:         ctx.String("provider"),
		model:            ctx.String("model"),
		logLevel:         ctx.String("log-level"),
		outputDir:        ctx.String("output-dir"),
		maxRounds:        ctx.Int("max-rounds"),
		allowPlaceholder: ctx.Bool("allow-placeholder"),
		testRender:       ctx.Bool("test-render"),
	}
}
