package media

import (
	"context"
	"errors"
	"sync"
	"time"
)

// scriptedChecker replays a fixed sequence of status checks. The last entry
// repeats once the sequence is exhausted.
type scriptedChecker struct {
	mu       sync.Mutex
	statuses []*OperationStatus
	errs     []error
	calls    int
}

func (c *scriptedChecker) CheckVideoOperation(ctx context.Context, operationID string) (*OperationStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	if i >= len(c.statuses) {
		i = len(c.statuses) - 1
	}
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	status := *c.statuses[i]
	status.ID = operationID
	return &status, nil
}

func processing() *OperationStatus { return &OperationStatus{Status: StatusProcessing} }

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

var errConnRefused = errors.New("dial tcp: connection refused")
