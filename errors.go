package adforge

import (
	"errors"
	"fmt"
)

var (
	// ErrApprovalLimit is returned when the script is still rejected after
	// the configured number of approval rounds.
	ErrApprovalLimit = errors.New("approval round limit reached")

	// ErrDialogCanceled is returned when the user dismisses a prompt.
	ErrDialogCanceled = errors.New("dialog canceled")
)

// StageError identifies the pipeline stage a failure came from.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Pipeline stage names used in StageError.
const (
	StageBrief    = "gather brief"
	StageResearch = "market research"
	StageCopy     = "ad copy"
	StageApproval = "approval"
	StageRender   = "render"
)
