package adforge

import (
	"context"
	"fmt"
	"strings"
)

// Dialog handles user interaction prompts during a run.
//
// Implementations provide the UI layer for confirmations and text input. The
// prompt type is determined by DialogInput.Confirm:
//
//   - Confirm mode: a yes/no question, answered in DialogOutput.Confirmed
//   - Input mode: free-form text, answered in DialogOutput.Text
//
// The interactive CLI uses [TerminalDialog]; the demo and tests use
// [ScriptedDialog].
type Dialog interface {
	// Show presents a dialog to the user and waits for their response.
	Show(ctx context.Context, in *DialogInput) (*DialogOutput, error)
}

// Prompt identifiers. Scripted dialogs answer by ID rather than by wording.
const (
	PromptProductName    = "product_name"
	PromptDescription    = "product_description"
	PromptAudience       = "target_audience"
	PromptTone           = "ad_tone"
	PromptApproveScript  = "approve_script"
	PromptScriptFeedback = "script_feedback"
	PromptMakeEdits      = "make_edits"
)

// DialogInput describes what to present to the user.
type DialogInput struct {
	// ID identifies the question independently of its wording.
	ID string

	// Title is a short heading for the dialog.
	Title string

	// Message is the question itself.
	Message string

	// Confirm indicates this is a yes/no confirmation dialog.
	Confirm bool

	// Default is used when the user enters nothing: "true"/"false" in
	// Confirm mode, text otherwise.
	Default string

	// Validate is an optional validation function for text input.
	// Return an error to reject the input with a message.
	Validate func(string) error
}

// DialogOutput contains the user's response.
type DialogOutput struct {
	// Confirmed is the answer for Confirm mode dialogs.
	Confirmed bool

	// Text is the entered text for Input mode dialogs.
	Text string

	// Canceled indicates the user dismissed the dialog without responding.
	Canceled bool
}

// Confirm asks a yes/no question.
func Confirm(ctx context.Context, d Dialog, in *DialogInput) (bool, error) {
	in.Confirm = true
	out, err := d.Show(ctx, in)
	if err != nil {
		return false, err
	}
	if out.Canceled {
		return false, ErrDialogCanceled
	}
	return out.Confirmed, nil
}

// Ask asks for free text. The answer is returned trimmed.
func Ask(ctx context.Context, d Dialog, in *DialogInput) (string, error) {
	in.Confirm = false
	out, err := d.Show(ctx, in)
	if err != nil {
		return "", err
	}
	if out.Canceled {
		return "", ErrDialogCanceled
	}
	return strings.TrimSpace(out.Text), nil
}

// IsAffirmative reports whether text is a yes answer ("y" or "yes", any case).
func IsAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes":
		return true
	}
	return false
}

// RequireText is a Validate function that rejects blank input.
func RequireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}
