package audit

import (
	"context"
	"log/slog"
)

// Event represents an audit entry for one step of a gate invocation.
type Event struct {
	// Type describes the event kind (tool_call, allow, escalation, ...).
	Type string
	// Tool is the tool name.
	Tool string
	// InvocationID links the events of one gate invocation.
	InvocationID string
	// Decision is the permission decision, when one was made.
	Decision string
	// Reason provides additional context.
	Reason string
}

// Logger records audit events. Events are observational only; nothing
// downstream consumes them.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event.
func (l *StdLogger) Record(_ context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info("audit",
		"type", event.Type,
		"tool", event.Tool,
		"invocation_id", event.InvocationID,
		"decision", event.Decision,
		"reason", event.Reason,
	)
}

// Fanout records each event on every sink.
type Fanout []Logger

// Record forwards the event to all sinks.
func (f Fanout) Record(ctx context.Context, event Event) {
	for _, sink := range f {
		if sink != nil {
			sink.Record(ctx, event)
		}
	}
}
