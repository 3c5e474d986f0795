package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codex-k8s/toolgate/internal/gate/approver"
	"github.com/codex-k8s/toolgate/internal/hook"
)

// Error kinds surfaced by Approve. The gate maps each of them to a terminal
// decision according to its fail mode; none of them means a human said no.
var (
	// ErrChannelUnavailable reports a missing credential. The request is
	// failed locally, never sent to the network.
	ErrChannelUnavailable = errors.New("approval channel unavailable")
	// ErrTransport reports a connection failure or a non-2xx status.
	ErrTransport = errors.New("approval transport error")
	// ErrMalformedResponse reports an unparseable approval response.
	ErrMalformedResponse = errors.New("malformed approval response")
)

// TokenSource supplies the approval credential.
type TokenSource func() (string, error)

// Client calls the remote approval service that renders the request to a
// human reviewer and returns their decision.
type Client struct {
	// BaseURL is the approval service base URL; the request goes to
	// BaseURL + "/approve".
	BaseURL string
	// Token supplies the X-Auth-Token credential.
	Token TokenSource
	// Timeout is the HTTP timeout, the hard ceiling on how long a human
	// has to respond.
	Timeout time.Duration
	// HTTPClient overrides the transport; nil builds one from Timeout.
	HTTPClient *http.Client
}

// Request is the JSON payload sent to the approval service.
type Request struct {
	// ToolName is the tool awaiting authorization.
	ToolName string `json:"tool_name"`
	// ToolInput carries the unredacted tool arguments for human review.
	ToolInput map[string]any `json:"tool_input"`
}

// Response is the JSON decision returned by the approval service.
type Response struct {
	// PermissionDecision is "allow" or "deny".
	PermissionDecision string `json:"permissionDecision"`
	// Message is an optional human-readable reason.
	Message string `json:"message,omitempty"`
}

// Name returns the approver name for audit and logging.
func (c Client) Name() string {
	return "remote"
}

// Approve sends the request to the approval service and parses the decision.
// An absent permissionDecision in the response denies: an ambiguous server
// answer must not authorize anything.
func (c Client) Approve(ctx context.Context, req approver.Request) (approver.Decision, error) {
	if c.BaseURL == "" {
		return approver.Decision{}, fmt.Errorf("%w: no approval server url", ErrChannelUnavailable)
	}

	token := ""
	if c.Token != nil {
		value, err := c.Token()
		if err != nil {
			return approver.Decision{}, fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
		}
		token = value
	}
	if token == "" {
		return approver.Decision{}, fmt.Errorf("%w: empty auth token", ErrChannelUnavailable)
	}

	body, err := json.Marshal(Request{ToolName: req.ToolName, ToolInput: req.ToolInput})
	if err != nil {
		return approver.Decision{}, fmt.Errorf("encode approval request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/approve"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return approver.Decision{}, fmt.Errorf("build approval request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Auth-Token", token)

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}
	resp, err := client.Do(request)
	if err != nil {
		if isTimeout(err) {
			return approver.Decision{}, approver.ErrTimeout
		}
		return approver.Decision{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return approver.Decision{}, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var parsed Response
	if err := json.Unmarshal(data, &parsed); err != nil {
		return approver.Decision{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch strings.ToLower(strings.TrimSpace(parsed.PermissionDecision)) {
	case hook.DecisionAllow:
		return approver.Decision{Allowed: true, Reason: parsed.Message, Source: c.Name()}, nil
	case hook.DecisionDeny:
		return approver.Decision{Allowed: false, Reason: fallbackReason(parsed.Message, "denied"), Source: c.Name()}, nil
	case "":
		return approver.Decision{Allowed: false, Reason: fallbackReason(parsed.Message, "approval service returned no decision"), Source: c.Name()}, nil
	default:
		return approver.Decision{}, fmt.Errorf("%w: unknown decision %q", ErrMalformedResponse, parsed.PermissionDecision)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func fallbackReason(reason, fallback string) string {
	if strings.TrimSpace(reason) == "" {
		return fallback
	}
	return reason
}
