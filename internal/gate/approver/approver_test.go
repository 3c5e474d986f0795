package approver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	name     string
	decision Decision
	err      error
	calls    int
	delay    time.Duration
}

func (s *stub) Name() string { return s.name }

func (s *stub) Approve(ctx context.Context, _ Request) (Decision, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Decision{}, ctx.Err()
		}
	}
	return s.decision, s.err
}

func TestChainAllRunsWhenAllAllow(t *testing.T) {
	first := &stub{name: "first", decision: Decision{Allowed: true}}
	last := &stub{name: "last", decision: Decision{Allowed: true, Reason: "ok", Source: "last"}}
	chain := Chain{Approvers: []Approver{first, last}}

	decision, err := chain.Approve(context.Background(), Request{ToolName: "Bash"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.Equal(t, "ok", decision.Reason)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, last.calls)
}

func TestChainFirstRefusalShortCircuits(t *testing.T) {
	first := &stub{name: "first", decision: Decision{Allowed: false, Reason: "nope"}}
	last := &stub{name: "last", decision: Decision{Allowed: true}}
	chain := Chain{Approvers: []Approver{first, last}}

	decision, err := chain.Approve(context.Background(), Request{ToolName: "Bash"})
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, "nope", decision.Reason)
	assert.Equal(t, "first", decision.Source)
	assert.Zero(t, last.calls)
}

func TestChainErrorAborts(t *testing.T) {
	first := &stub{name: "first", err: assert.AnError}
	last := &stub{name: "last", decision: Decision{Allowed: true}}
	chain := Chain{Approvers: []Approver{first, last}}

	_, err := chain.Approve(context.Background(), Request{ToolName: "Bash"})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, last.calls)
}

func TestChainEmptyAllows(t *testing.T) {
	decision, err := Chain{}.Approve(context.Background(), Request{ToolName: "Bash"})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
}

func TestTimeoutPassesThroughFastDecision(t *testing.T) {
	inner := &stub{name: "inner", decision: Decision{Allowed: true, Reason: "ok"}}
	wrapped := Timeout{Inner: inner, Timeout: time.Second}

	decision, err := wrapped.Approve(context.Background(), Request{})
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
}

func TestTimeoutExpiryIsErrTimeout(t *testing.T) {
	inner := &stub{name: "inner", decision: Decision{Allowed: true}, delay: time.Second}
	wrapped := Timeout{Inner: inner, Timeout: 20 * time.Millisecond}

	start := time.Now()
	_, err := wrapped.Approve(context.Background(), Request{})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimeoutWithoutInnerFails(t *testing.T) {
	_, err := Timeout{Timeout: time.Second}.Approve(context.Background(), Request{})

	assert.Error(t, err)
}
