package media

import (
	"errors"
	"fmt"
)

// ErrNoJobID is returned when a submission succeeds at the transport level
// but the service does not hand back a job identifier.
var ErrNoJobID = errors.New("video service returned no job id")

// ErrPollTimeout is returned when the poll budget is exhausted before the job
// reaches a terminal state.
var ErrPollTimeout = errors.New("render job did not finish in time")

// RenderFailedError is an explicit failed status reported by the service.
type RenderFailedError struct {
	JobID   string
	Message string
}

func (e *RenderFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("render job %s failed", e.JobID)
	}
	return fmt.Sprintf("render job %s failed: %s", e.JobID, e.Message)
}

// UnreachableError means the status endpoint could not be reached on the
// final poll attempt.
type UnreachableError struct {
	JobID    string
	Attempts int
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("render job %s: status unavailable after %d attempts: %v", e.JobID, e.Attempts, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// DownloadError is a failed or rejected asset fetch.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("download %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("download %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// LocalIOError is a filesystem failure while writing the downloaded asset.
type LocalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error {
	return e.Err
}
