package approver

import (
	"context"
	"errors"
	"time"
)

// Timeout wraps an approver with a context deadline so a non-responsive
// approval service cannot hang the calling runtime.
type Timeout struct {
	// Inner is the wrapped approver.
	Inner Approver
	// Timeout is the maximum duration for approval.
	Timeout time.Duration
}

// Name returns the inner approver name.
func (t Timeout) Name() string {
	if t.Inner != nil {
		return t.Inner.Name()
	}
	return "timeout"
}

// Approve executes the inner approver under the deadline. Hitting the
// deadline surfaces as ErrTimeout, a channel failure, never as a human
// denial.
func (t Timeout) Approve(ctx context.Context, req Request) (Decision, error) {
	if t.Inner == nil || t.Timeout <= 0 {
		return Decision{}, errors.New("invalid timeout approver")
	}
	ctxTimeout, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()
	decision, err := t.Inner.Approve(ctxTimeout, req)
	if errors.Is(ctxTimeout.Err(), context.DeadlineExceeded) {
		return Decision{}, ErrTimeout
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Decision{}, ErrTimeout
		}
		return Decision{}, err
	}
	return decision, nil
}
