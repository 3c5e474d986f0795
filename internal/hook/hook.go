package hook

import (
	"encoding/json"
	"fmt"
	"io"
)

// EventName identifies the hook point this gate serves.
const EventName = "PreToolUse"

// Permission decisions.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// ToolCallRequest is the single JSON object the calling runtime writes
// on stdin, describing the tool invocation awaiting authorization.
type ToolCallRequest struct {
	// ToolName is the tool the runtime wants to execute.
	ToolName string `json:"tool_name"`
	// ToolInput carries the proposed tool arguments.
	ToolInput map[string]any `json:"tool_input"`
}

// Output is the single JSON object written back on stdout.
type Output struct {
	HookSpecificOutput Result `json:"hookSpecificOutput"`
}

// Result carries the decision in the shape the calling runtime expects.
type Result struct {
	// HookEventName is always EventName.
	HookEventName string `json:"hookEventName"`
	// PermissionDecision is "allow" or "deny".
	PermissionDecision string `json:"permissionDecision"`
	// PermissionDecisionReason explains the decision to the user.
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// Read parses one inbound request. The request is never mutated afterwards;
// a parse failure is a MalformedInboundRequest condition for the caller.
func Read(r io.Reader) (ToolCallRequest, error) {
	var req ToolCallRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return ToolCallRequest{}, fmt.Errorf("parse tool call request: %w", err)
	}
	return req, nil
}

// Write emits exactly one decision object followed by a newline.
func Write(w io.Writer, decision, reason string) error {
	out := Output{
		HookSpecificOutput: Result{
			HookEventName:            EventName,
			PermissionDecision:       decision,
			PermissionDecisionReason: reason,
		},
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	return nil
}
