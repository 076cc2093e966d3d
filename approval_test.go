package adforge

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

type regenRecorder struct {
	feedback []string
	err      error
}

func (r *regenRecorder) regenerate(ctx context.Context, current *Script, feedback string) (*Script, error) {
	r.feedback = append(r.feedback, feedback)
	if r.err != nil {
		return nil, r.err
	}
	return &Script{
		Text:     current.Text + " (" + feedback + ")",
		Revision: current.Revision + 1,
		Feedback: feedback,
	}, nil
}

func TestApprovalLoopApprovesWithoutRegenerating(t *testing.T) {
	dialog := NewScriptedDialog().Answer(PromptApproveScript, "y")
	regen := &regenRecorder{}
	loop := &ApprovalLoop{Dialog: dialog}

	script := generatedScript("[Hook] Hello")
	result, err := loop.Run(context.Background(), script, regen.regenerate)
	assert.NoError(t, err)
	assert.True(t, result.Approved)
	assert.Equal(t, 1, result.Rounds)
	assert.Equal(t, script, result.Script)
	assert.Len(t, regen.feedback, 0)
	assert.Equal(t, 0, dialog.Count(PromptScriptFeedback))
}

func TestApprovalLoopOneRegenerationPerRejection(t *testing.T) {
	for _, feedback := range []string{"shorter", "make it funnier", "target moms", "ü"} {
		t.Run(feedback, func(t *testing.T) {
			var presented []string
			var out bytes.Buffer
			console := NewConsole(&out)
			current := ""
			approvals := []bool{false, true}
			dialog := dialogFunc(func(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
				switch in.ID {
				case PromptApproveScript:
					presented = append(presented, current)
					answer := approvals[0]
					approvals = approvals[1:]
					return &DialogOutput{Confirmed: answer}, nil
				case PromptScriptFeedback:
					return &DialogOutput{Text: feedback}, nil
				}
				return nil, errors.New("unexpected prompt " + in.ID)
			})
			regen := &regenRecorder{}
			loop := &ApprovalLoop{Dialog: dialog, Console: console}

			result, err := loop.Run(context.Background(), generatedScript("v1"), func(ctx context.Context, s *Script, f string) (*Script, error) {
				next, err := regen.regenerate(ctx, s, f)
				current = next.Text
				return next, err
			})
			assert.NoError(t, err)
			assert.True(t, result.Approved)
			assert.Equal(t, []string{feedback}, regen.feedback)
			assert.Equal(t, 1, result.Regenerations)
			assert.Equal(t, 2, result.Rounds)
			assert.Equal(t, 2, result.Script.Revision)
			// The second approval question sees the regenerated script
			assert.Equal(t, "v1 ("+feedback+")", presented[1])
			assert.Contains(t, out.String(), "revision 2")
		})
	}
}

func TestApprovalLoopRepromptsOnBlankFeedback(t *testing.T) {
	var out bytes.Buffer
	dialog := NewScriptedDialog().
		Answer(PromptApproveScript, "n", "yes").
		Answer(PromptScriptFeedback, "", "   ", "funnier")
	regen := &regenRecorder{}
	loop := &ApprovalLoop{Dialog: dialog, Console: NewConsole(&out)}

	result, err := loop.Run(context.Background(), generatedScript("v1"), regen.regenerate)
	assert.NoError(t, err)
	assert.True(t, result.Approved)
	assert.Equal(t, 3, dialog.Count(PromptScriptFeedback))
	assert.Equal(t, []string{"funnier"}, regen.feedback)
	assert.Equal(t, 2, strings.Count(out.String(), "Please provide some feedback to improve the script."))
}

func TestApprovalLoopNeverSucceedsOnBlankFeedbackOnly(t *testing.T) {
	dialog := NewScriptedDialog().
		Answer(PromptApproveScript, "n").
		Answer(PromptScriptFeedback, "", " ", "\t")
	regen := &regenRecorder{}
	loop := &ApprovalLoop{Dialog: dialog}

	result, err := loop.Run(context.Background(), generatedScript("v1"), regen.regenerate)
	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.False(t, result.Approved)
	assert.Len(t, regen.feedback, 0)
	assert.Equal(t, 4, dialog.Count(PromptScriptFeedback))
}

func TestApprovalLoopRegenerationFailureKeepsPreviousScript(t *testing.T) {
	var out bytes.Buffer
	dialog := NewScriptedDialog().
		Answer(PromptApproveScript, "n").
		Answer(PromptScriptFeedback, "shorter")
	regen := &regenRecorder{err: errors.New("upstream 503")}
	loop := &ApprovalLoop{Dialog: dialog, Console: NewConsole(&out)}

	original := generatedScript("v1")
	result, err := loop.Run(context.Background(), original, regen.regenerate)
	assert.NoError(t, err)
	assert.True(t, result.Approved)
	assert.Equal(t, original, result.Script)
	assert.ErrorContains(t, result.RegenerationErr, "upstream 503")
	assert.Len(t, regen.feedback, 1)
	assert.Contains(t, out.String(), "Could not regenerate the script")
}

func TestApprovalLoopEmptyRegenerationIsAFailure(t *testing.T) {
	dialog := NewScriptedDialog().
		Answer(PromptApproveScript, "n").
		Answer(PromptScriptFeedback, "shorter")
	loop := &ApprovalLoop{Dialog: dialog}

	result, err := loop.Run(context.Background(), generatedScript("v1"), func(ctx context.Context, s *Script, f string) (*Script, error) {
		return &Script{Revision: 2}, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "v1", result.Script.Text)
	assert.Error(t, result.RegenerationErr)
}

func TestApprovalLoopRoundLimit(t *testing.T) {
	dialog := NewScriptedDialog().
		Fallback(PromptApproveScript, "n").
		Fallback(PromptScriptFeedback, "again")
	regen := &regenRecorder{}
	loop := &ApprovalLoop{Dialog: dialog, MaxRounds: 3}

	result, err := loop.Run(context.Background(), generatedScript("v1"), regen.regenerate)
	assert.ErrorIs(t, err, ErrApprovalLimit)
	assert.False(t, result.Approved)
	assert.Equal(t, 3, result.Rounds)
	assert.Len(t, regen.feedback, 2)
}

func TestApprovalLoopRejectsUngeneratedScript(t *testing.T) {
	loop := &ApprovalLoop{Dialog: NewScriptedDialog()}
	_, err := loop.Run(context.Background(), &Script{Text: "hand written"}, nil)
	assert.ErrorIs(t, err, ErrScriptNotGenerated)
}

func TestApprovalLoopCanceledDialog(t *testing.T) {
	dialog := dialogFunc(func(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
		return &DialogOutput{Canceled: true}, nil
	})
	loop := &ApprovalLoop{Dialog: dialog}
	_, err := loop.Run(context.Background(), generatedScript("v1"), nil)
	assert.ErrorIs(t, err, ErrDialogCanceled)
}

func TestApprovalLoopShowsDiff(t *testing.T) {
	var out bytes.Buffer
	dialog := NewScriptedDialog().
		Answer(PromptApproveScript, "n", "y").
		Answer(PromptScriptFeedback, "shorter")
	loop := &ApprovalLoop{Dialog: dialog, Console: NewConsole(&out), DiffContext: 1}

	_, err := loop.Run(context.Background(), generatedScript("line one\nline two"), func(ctx context.Context, s *Script, f string) (*Script, error) {
		return &Script{Text: "line one\nline 2", Revision: 2}, nil
	})
	assert.NoError(t, err)
	text := stripANSI(out.String())
	assert.Contains(t, text, "-line two")
	assert.Contains(t, text, "+line 2")
}
