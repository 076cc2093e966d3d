package media

import (
	"context"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/adforge/log"
)

const (
	DefaultPollInterval    = 2 * time.Minute
	DefaultPollMaxAttempts = 10
)

// Poller checks a render job at a fixed interval until it completes, fails
// or the attempt budget runs out. Transport errors consume attempts the same
// way "still processing" does.
type Poller struct {
	Checker     VideoOperationChecker
	Interval    time.Duration
	MaxAttempts int
	Logger      log.Logger

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnStatus, when set, is called after every status check that returned
	// a status.
	OnStatus func(attempt int, status *OperationStatus)

	// OnError, when set, is called after every status check that failed.
	OnError func(attempt int, err error)
}

// NewPoller returns a Poller with the default interval and attempt budget.
func NewPoller(checker VideoOperationChecker) *Poller {
	return &Poller{
		Checker:     checker,
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultPollMaxAttempts,
	}
}

// Wait blocks until jobID reaches a terminal state and returns the remote
// asset URL of the completed job.
func (p *Poller) Wait(ctx context.Context, jobID string) (string, error) {
	if jobID == "" {
		return "", ErrNoJobID
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := p.Logger
	if logger == nil {
		logger = log.NewNullLogger()
	}
	logger = logger.With("job_id", jobID)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		status, err := p.Checker.CheckVideoOperation(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			if p.OnError != nil {
				p.OnError(attempt, err)
			}
			logger.Warn("status check failed", "attempt", attempt, "error", err)
		} else {
			lastErr = nil
			if p.OnStatus != nil {
				p.OnStatus(attempt, status)
			}
			logger.Debug("status checked", "attempt", attempt, "status", status.Status)

			switch status.Status {
			case StatusCompleted:
				if status.VideoURL == "" {
					return "", &RenderFailedError{JobID: jobID, Message: "completed without a video url"}
				}
				return status.VideoURL, nil
			case StatusFailed:
				return "", &RenderFailedError{JobID: jobID, Message: status.Error}
			}
		}

		if attempt < maxAttempts {
			if err := sleep(ctx, interval); err != nil {
				return "", err
			}
		}
	}

	if lastErr != nil {
		return "", &UnreachableError{JobID: jobID, Attempts: maxAttempts, Err: lastErr}
	}
	return "", fmt.Errorf("%w: job %s still processing after %d attempts", ErrPollTimeout, jobID, maxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
