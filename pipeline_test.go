package adforge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/deepnoodle-ai/adforge/log"
	"github.com/deepnoodle-ai/adforge/media/providers/heygen"
	"github.com/deepnoodle-ai/wonton/assert"
)

// heygenServer fakes both HeyGen endpoints and the asset host. The job
// reports processing twice before completing.
func heygenServer(t *testing.T, scripts *[]string) *httptest.Server {
	t.Helper()
	var polls atomic.Int32
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/video/generate", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			VideoInputs []struct {
				Voice struct {
					InputText string `json:"input_text"`
				} `json:"voice"`
			} `json:"video_inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.VideoInputs) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		*scripts = append(*scripts, body.VideoInputs[0].Voice.InputText)
		w.Write([]byte(`{"error": null, "data": {"video_id": "job-42"}}`))
	})
	mux.HandleFunc("GET /v1/videos/job-42", func(w http.ResponseWriter, r *http.Request) {
		if polls.Add(1) < 3 {
			w.Write([]byte(`{"code": 100, "data": {"id": "job-42", "status": "processing"}}`))
			return
		}
		w.Write([]byte(`{"code": 100, "data": {"id": "job-42", "status": "completed", "video_url": "` + server.URL + `/assets/job-42.mp4"}}`))
	})
	mux.HandleFunc("GET /assets/job-42.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-mp4-bytes"))
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestPipeline(t *testing.T, model *fakeModel, dialog Dialog, out *bytes.Buffer) (*Pipeline, *[]string, *noSleep) {
	t.Helper()
	var scripts []string
	server := heygenServer(t, &scripts)
	service := heygen.New(
		heygen.WithAPIKey("hg-key"),
		heygen.WithBaseURL(server.URL+"/v2"),
		heygen.WithStatusURL(server.URL+"/v1/videos"),
	)
	sleeper := &noSleep{}
	renderer := NewRenderer(service, RendererOptions{OutputDir: filepath.Join(t.TempDir(), "output")})
	renderer.Poller.Sleep = sleeper.sleep
	return &Pipeline{
		Writer:   NewWriter(model),
		Dialog:   dialog,
		Renderer: renderer,
		Console:  NewConsole(out),
	}, &scripts, sleeper
}

func TestPipelineEndToEnd(t *testing.T) {
	model := adModel()
	dialog := NewScriptedDialog().
		Answer(PromptProductName, "Widget").
		Answer(PromptDescription, "does X").
		Answer(PromptAudience, "teens").
		Answer(PromptTone, "funny").
		Answer(PromptApproveScript, "n", "y").
		Answer(PromptScriptFeedback, "shorter").
		Answer(PromptMakeEdits, "n")
	var out bytes.Buffer
	pipeline, submitted, sleeper := newTestPipeline(t, model, dialog, &out)

	results, err := pipeline.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	result := results[0]

	assert.Equal(t, CampaignBrief{ProductName: "Widget", Description: "does X", Audience: "teens", Tone: "funny"}, result.Brief)
	assert.NotEmpty(t, result.Research.Text)

	prompts := model.prompts()
	assert.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "Product: Widget")
	assert.Contains(t, prompts[1], result.Research.Text)
	assert.Contains(t, prompts[2], "User Feedback for Improvement: shorter")

	final := result.Script()
	assert.Equal(t, 2, final.Revision)
	assert.Equal(t, "shorter", final.Feedback)
	assert.NotEmpty(t, final.Cues())
	assert.Equal(t, 1, result.Approval.Regenerations)

	// Only the approved revision is rendered
	assert.Equal(t, []string{final.Text}, *submitted)
	assert.Len(t, sleeper.waits, 2)

	render := result.Render
	assert.False(t, render.Placeholder)
	assert.Equal(t, "job-42", render.JobID)
	assert.Equal(t, pipeline.Renderer.Downloader.Path("job-42"), render.LocalPath)
	assert.Equal(t, "video_job-42.mp4", filepath.Base(render.LocalPath))
	data, err := os.ReadFile(render.LocalPath)
	assert.NoError(t, err)
	assert.Equal(t, "fake-mp4-bytes", string(data))

	text := stripANSI(out.String())
	assert.Contains(t, text, "Your ad video is ready!")
	assert.Contains(t, text, render.LocalPath)
	assert.Contains(t, text, "Goodbye!")
}

func TestPipelineDraftDiffersFromRevision(t *testing.T) {
	model := adModel()
	brief := CampaignBrief{ProductName: "Widget", Description: "does X", Audience: "teens", Tone: "funny"}
	w := NewWriter(model)

	research, err := w.Research(context.Background(), brief)
	assert.NoError(t, err)
	v1, err := w.Draft(context.Background(), brief, research)
	assert.NoError(t, err)
	v2, err := w.Revise(context.Background(), brief, research, v1, "shorter")
	assert.NoError(t, err)

	assert.Equal(t, 1, v1.Revision)
	assert.Equal(t, 2, v2.Revision)
	assert.NotEqual(t, v1.Text, v2.Text)
	assert.Equal(t, "", v1.Feedback)
}

func TestPipelineRestartsOnEdits(t *testing.T) {
	dialog := NewScriptedDialog().
		Answer(PromptProductName, "Widget", "Widget Pro").
		Answer(PromptDescription, "does X", "does Y").
		Answer(PromptAudience, "teens", "parents").
		Answer(PromptTone, "funny", "calm").
		Fallback(PromptApproveScript, "y").
		Answer(PromptMakeEdits, "yes", "no")
	var out bytes.Buffer
	pipeline, submitted, _ := newTestPipeline(t, adModel(), dialog, &out)

	results, err := pipeline.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Widget", results[0].Brief.ProductName)
	assert.Equal(t, "Widget Pro", results[1].Brief.ProductName)
	assert.Equal(t, "calm", results[1].Brief.Tone)
	assert.Len(t, *submitted, 2)
	assert.Equal(t, 2, dialog.Count(PromptMakeEdits))
}

func TestPipelinePresetBriefAndMaxRuns(t *testing.T) {
	dialog := NewScriptedDialog().Answer(PromptApproveScript, "y")
	var out bytes.Buffer
	pipeline, _, _ := newTestPipeline(t, adModel(), dialog, &out)
	pipeline.Brief = &CampaignBrief{ProductName: "Widget", Description: "does X", Audience: "teens", Tone: "funny"}
	pipeline.MaxRuns = 1

	results, err := pipeline.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 0, dialog.Count(PromptProductName))
	assert.Equal(t, 0, dialog.Count(PromptMakeEdits))
}

func TestPipelineLogsThroughContext(t *testing.T) {
	dialog := NewScriptedDialog().Answer(PromptApproveScript, "y")
	var out bytes.Buffer
	pipeline, _, _ := newTestPipeline(t, adModel(), dialog, &out)
	pipeline.Brief = &CampaignBrief{ProductName: "Widget", Description: "does X", Audience: "teens", Tone: "funny"}
	pipeline.MaxRuns = 1
	recorder := log.NewRecorder()
	pipeline.Logger = recorder

	_, err := pipeline.Run(context.Background())
	assert.NoError(t, err)

	var stageEntries int
	for _, entry := range recorder.Entries() {
		if entry.Message == "research complete" || entry.Message == "script drafted" || entry.Message == "approval answer" {
			stageEntries++
			assert.Equal(t, []any{"run", 1}, entry.Args[:2], entry.Message)
		}
	}
	assert.Equal(t, 3, stageEntries)
}

func TestPipelineStageErrors(t *testing.T) {
	t.Run("research failure", func(t *testing.T) {
		model := &fakeModel{respond: func(string) (string, error) { return "", errors.New("openrouter api error (status 401)") }}
		dialog := NewScriptedDialog()
		var out bytes.Buffer
		pipeline, submitted, _ := newTestPipeline(t, model, dialog, &out)
		pipeline.Brief = &CampaignBrief{ProductName: "Widget", Description: "does X", Audience: "teens", Tone: "funny"}

		results, err := pipeline.Run(context.Background())
		assert.Len(t, results, 0)
		var stageErr *StageError
		assert.True(t, errors.As(err, &stageErr))
		assert.Equal(t, StageResearch, stageErr.Stage)
		assert.Len(t, *submitted, 0)
	})

	t.Run("approval limit", func(t *testing.T) {
		dialog := NewScriptedDialog().
			Fallback(PromptApproveScript, "n").
			Fallback(PromptScriptFeedback, "again")
		var out bytes.Buffer
		pipeline, submitted, _ := newTestPipeline(t, adModel(), dialog, &out)
		pipeline.Brief = &CampaignBrief{ProductName: "Widget", Description: "does X", Audience: "teens", Tone: "funny"}
		pipeline.MaxRounds = 2

		_, err := pipeline.Run(context.Background())
		assert.ErrorIs(t, err, ErrApprovalLimit)
		var stageErr *StageError
		assert.True(t, errors.As(err, &stageErr))
		assert.Equal(t, StageApproval, stageErr.Stage)
		assert.Len(t, *submitted, 0)
	})

	t.Run("invalid preset brief", func(t *testing.T) {
		var out bytes.Buffer
		pipeline, _, _ := newTestPipeline(t, adModel(), NewScriptedDialog(), &out)
		pipeline.Brief = &CampaignBrief{ProductName: "Widget"}

		_, err := pipeline.Run(context.Background())
		assert.ErrorContains(t, err, "description, audience, tone")
	})

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := (&Pipeline{}).Run(context.Background())
		assert.ErrorContains(t, err, "writer")
		assert.ErrorContains(t, err, "dialog")
		assert.ErrorContains(t, err, "renderer")
	})
}
