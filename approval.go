package adforge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/adforge/log"
)

// RegenerateFunc produces a replacement script from a feedback note.
type RegenerateFunc func(ctx context.Context, current *Script, feedback string) (*Script, error)

// ApprovalResult is the outcome of an approval loop.
type ApprovalResult struct {
	// Script is the final script. It is the last successfully generated one.
	Script *Script

	// Approved is true when the user approved, or when regeneration failed
	// and the previous script was kept as final.
	Approved bool

	// Rounds counts how many times the user was asked to approve.
	Rounds int

	// Regenerations counts successful regeneration calls.
	Regenerations int

	// RegenerationErr is set when a regeneration failed and ended the loop.
	RegenerationErr error
}

// ApprovalLoop presents a script until the user approves it, regenerating it
// from feedback after each rejection.
type ApprovalLoop struct {
	Dialog  Dialog
	Console *Console
	Logger  log.Logger

	// MaxRounds caps the number of approval questions. Zero means no cap.
	MaxRounds int

	// DiffContext is the number of context lines shown around changes
	// between revisions. Negative disables the diff.
	DiffContext int
}

const feedbackHint = `Which part would you like to change? You can type a short comment (e.g. "make it funnier", "target moms", "simpler language")`

func (l *ApprovalLoop) logger() log.Logger {
	if l.Logger == nil {
		return log.NewNullLogger()
	}
	return l.Logger
}

// Run executes the loop starting from script. Exactly one call to regenerate
// is made per rejection and none on approval. A regeneration failure ends
// the loop with the prior script and a nil error. ErrApprovalLimit is
// returned when a rejection happens in the last allowed round.
func (l *ApprovalLoop) Run(ctx context.Context, script *Script, regenerate RegenerateFunc) (*ApprovalResult, error) {
	if !script.Generated() {
		return nil, ErrScriptNotGenerated
	}
	if l.Dialog == nil {
		return nil, errors.New("approval loop requires a dialog")
	}
	logger := l.logger()
	result := &ApprovalResult{Script: script}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Rounds++
		l.Console.Script(result.Script)

		approved, err := Confirm(ctx, l.Dialog, &DialogInput{
			ID:      PromptApproveScript,
			Title:   "Script approval",
			Message: "Do you approve this script?",
		})
		if err != nil {
			return result, err
		}
		logger.Debug("approval answer", "round", result.Rounds, "approved", approved)
		if approved {
			result.Approved = true
			l.Console.Success("Script approved")
			return result, nil
		}
		if l.MaxRounds > 0 && result.Rounds >= l.MaxRounds {
			logger.Warn("approval round limit reached", "round", result.Rounds)
			return result, fmt.Errorf("%w after %d rounds", ErrApprovalLimit, result.Rounds)
		}

		feedback, err := l.askFeedback(ctx)
		if err != nil {
			return result, err
		}

		l.Console.Step("Regenerating the script with your feedback")
		revised, err := regenerate(ctx, result.Script, feedback)
		if err == nil && !revised.Generated() {
			err = errors.New("regeneration returned an empty script")
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			logger.Error("script regeneration failed", "round", result.Rounds, "error", err)
			l.Console.Error("Could not regenerate the script: %v", err)
			l.Console.Warn("Continuing with the previous version of the script")
			result.Approved = true
			result.RegenerationErr = err
			return result, nil
		}

		l.showDiff(result.Script, revised)
		result.Script = revised
		result.Regenerations++
	}
}

// askFeedback re-prompts until a non-blank note is entered.
func (l *ApprovalLoop) askFeedback(ctx context.Context) (string, error) {
	for {
		feedback, err := Ask(ctx, l.Dialog, &DialogInput{
			ID:      PromptScriptFeedback,
			Title:   "Script feedback",
			Message: feedbackHint,
		})
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(feedback) != "" {
			return feedback, nil
		}
		l.Console.Warn("Please provide some feedback to improve the script.")
	}
}

func (l *ApprovalLoop) showDiff(previous, revised *Script) {
	if l.DiffContext < 0 || l.Console == nil {
		return
	}
	diff, err := ScriptDiff(previous, revised, l.DiffContext)
	if err != nil {
		l.logger().Debug("script diff failed", "error", err)
		return
	}
	if diff == "" {
		l.Console.Warn("The revised script is identical to the previous one")
		return
	}
	l.Console.Heading("Changes")
	l.Console.Diff(diff)
}
