// Package adforge turns a short product brief into a rendered advertisement
// video. It sequences a text model and a video service behind a user-gated
// pipeline.
//
// The core types are:
//
//   - [CampaignBrief], [Research] and [Script] carry the data of one run.
//   - [Dialog] abstracts the human: terminal prompts, or scripted answers
//     in the demo and in tests.
//   - [ApprovalLoop] presents the current script and regenerates it from
//     feedback until it is approved.
//   - [Renderer] submits the approved script, polls the job and downloads
//     the finished video.
//   - [Pipeline] runs the stages in order and restarts on request.
//
// # Quick Start
//
//	pipeline := &adforge.Pipeline{
//	    Writer:   adforge.NewWriter(openrouter.New()),
//	    Dialog:   adforge.NewTerminalDialog(),
//	    Renderer: adforge.NewRenderer(heygen.New(), adforge.RendererOptions{}),
//	    Console:  adforge.NewConsole(os.Stdout),
//	}
//	results, err := pipeline.Run(ctx)
//
// Text providers are in the [github.com/deepnoodle-ai/adforge/providers]
// subpackages; the HeyGen client is in
// [github.com/deepnoodle-ai/adforge/media/providers/heygen].
package adforge
