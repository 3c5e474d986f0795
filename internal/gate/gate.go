// Package gate implements the pre-execution decision gate: it classifies a
// proposed tool call as allow, deny, or escalate, and resolves escalations
// through an approver chain ending at the remote approval service.
package gate

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/codex-k8s/toolgate/internal/audit"
	"github.com/codex-k8s/toolgate/internal/gate/approver"
	"github.com/codex-k8s/toolgate/internal/hook"
	"github.com/codex-k8s/toolgate/internal/policy"
	"github.com/codex-k8s/toolgate/internal/security"
)

// Decision is the gate output: exactly one per request.
type Decision struct {
	// Permission is hook.DecisionAllow or hook.DecisionDeny.
	Permission string
	// Reason explains the decision to the user.
	Reason string
}

// Gate decides tool-call requests. All failures are caught and mapped to a
// terminal Decision; the gate never propagates an error for a parsed request.
type Gate struct {
	// Logger receives structured diagnostics on stderr.
	Logger *slog.Logger
	// Audit records the decision trail.
	Audit audit.Logger
	// Classifier resolves the no-network classes.
	Classifier policy.Classifier
	// Chain is the escalation path, ending at the remote approver.
	Chain approver.Chain
	// FailMode is policy.FailClosed or policy.FailOpen.
	FailMode string
}

// Run handles one hook invocation: read a request from in, decide, and write
// the decision to out. Only a failure to emit the decision is returned.
func (g Gate) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	req, err := hook.Read(in)
	if err != nil {
		d := g.malformed(ctx, err)
		return hook.Write(out, d.Permission, d.Reason)
	}
	d := g.Decide(ctx, req)
	return hook.Write(out, d.Permission, d.Reason)
}

// Decide classifies the request and escalates when no local rule settles it.
// Evaluation order is strict: safe list, trusted prefixes, then escalation;
// an earlier match never falls through to a network call.
func (g Gate) Decide(ctx context.Context, req hook.ToolCallRequest) Decision {
	id := uuid.NewString()

	if g.Logger != nil {
		g.Logger.Info("tool call",
			"tool", req.ToolName,
			"invocation_id", id,
			"input", security.RedactToolInput(req.ToolInput),
		)
	}
	g.record(ctx, audit.Event{Type: "tool_call", Tool: req.ToolName, InvocationID: id})

	switch g.Classifier.Classify(req.ToolName) {
	case policy.ClassSafe:
		return g.allow(ctx, req.ToolName, id, "safe tool")
	case policy.ClassTrusted:
		return g.allow(ctx, req.ToolName, id, "trusted tool namespace")
	}

	g.record(ctx, audit.Event{Type: "escalation", Tool: req.ToolName, InvocationID: id})
	decision, err := g.Chain.Approve(ctx, approver.Request{
		ToolName:     req.ToolName,
		ToolInput:    req.ToolInput,
		InvocationID: id,
	})
	if err != nil {
		return g.fail(ctx, req.ToolName, id, err)
	}
	if !decision.Allowed {
		g.record(ctx, audit.Event{
			Type:         "approval_denied",
			Tool:         req.ToolName,
			InvocationID: id,
			Decision:     hook.DecisionDeny,
			Reason:       decision.Reason,
		})
		return Decision{Permission: hook.DecisionDeny, Reason: decision.Reason}
	}
	g.record(ctx, audit.Event{
		Type:         "approval_ok",
		Tool:         req.ToolName,
		InvocationID: id,
		Decision:     hook.DecisionAllow,
		Reason:       decision.Reason,
	})
	return Decision{Permission: hook.DecisionAllow, Reason: decision.Reason}
}

func (g Gate) allow(ctx context.Context, tool, id, reason string) Decision {
	g.record(ctx, audit.Event{
		Type:         "allow",
		Tool:         tool,
		InvocationID: id,
		Decision:     hook.DecisionAllow,
		Reason:       reason,
	})
	return Decision{Permission: hook.DecisionAllow, Reason: reason}
}

// fail maps an approval-channel failure to a terminal decision. Downstream
// failures deny under both fail modes: an infrastructure hiccup must never
// silently authorize a risky action.
func (g Gate) fail(ctx context.Context, tool, id string, err error) Decision {
	reason := "approval request failed: " + err.Error()
	if errors.Is(err, approver.ErrTimeout) {
		reason = "approval request timed out"
	}
	if g.Logger != nil {
		g.Logger.Error("approval failed", "tool", tool, "invocation_id", id, "error", err)
	}
	g.record(ctx, audit.Event{
		Type:         "approval_error",
		Tool:         tool,
		InvocationID: id,
		Decision:     hook.DecisionDeny,
		Reason:       reason,
	})
	return Decision{Permission: hook.DecisionDeny, Reason: reason}
}

// malformed resolves an unparseable inbound request. FailOpen preserves a
// legacy deployment mode that let such requests through; everything else
// denies.
func (g Gate) malformed(ctx context.Context, err error) Decision {
	if g.Logger != nil {
		g.Logger.Error("malformed tool call request", "error", err)
	}
	if g.FailMode == policy.FailOpen {
		g.record(ctx, audit.Event{Type: "malformed_request", Decision: hook.DecisionAllow, Reason: err.Error()})
		return Decision{Permission: hook.DecisionAllow, Reason: "inbound request unparseable"}
	}
	g.record(ctx, audit.Event{Type: "malformed_request", Decision: hook.DecisionDeny, Reason: err.Error()})
	return Decision{Permission: hook.DecisionDeny, Reason: "malformed tool call request"}
}

func (g Gate) record(ctx context.Context, event audit.Event) {
	if g.Audit != nil {
		g.Audit.Record(ctx, event)
	}
}
