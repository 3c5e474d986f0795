package approver

import (
	"context"
	"errors"
)

// ErrTimeout reports that an approval did not complete within its deadline.
// The request is abandoned, never retried.
var ErrTimeout = errors.New("approval timed out")

// Request defines the input sent to approvers.
type Request struct {
	// ToolName is the tool awaiting authorization.
	ToolName string
	// ToolInput carries the proposed tool arguments.
	ToolInput map[string]any
	// InvocationID links related audit events.
	InvocationID string
}

// Decision represents an approver decision.
type Decision struct {
	// Allowed indicates the approval result.
	Allowed bool
	// Reason explains the decision.
	Reason string
	// Source identifies the approver.
	Source string
}

// Approver checks whether a tool call is allowed.
type Approver interface {
	// Name returns the approver identifier.
	Name() string
	// Approve returns a decision for the given request.
	Approve(ctx context.Context, req Request) (Decision, error)
}

// Chain runs approvers sequentially; the first refusal or error stops the
// chain, so local approvers placed before the remote one can settle a call
// without a network round trip.
type Chain struct {
	// Approvers is the ordered list to execute.
	Approvers []Approver
}

// Approve executes all approvers in order.
func (c Chain) Approve(ctx context.Context, req Request) (Decision, error) {
	var last Decision
	for _, item := range c.Approvers {
		decision, err := item.Approve(ctx, req)
		if err != nil {
			return Decision{}, err
		}
		if !decision.Allowed {
			if decision.Source == "" {
				decision.Source = item.Name()
			}
			return decision, nil
		}
		last = decision
	}
	last.Allowed = true
	return last, nil
}
