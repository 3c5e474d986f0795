package audit

import (
	"context"
	"encoding/json"
	"os"
	"time"
)

// FileLogger appends events as JSON lines to a debug file. Write failures
// are swallowed: diagnostics must never affect the decision path.
type FileLogger struct {
	path string
	now  func() time.Time
}

// NewFile returns a FileLogger appending to path.
func NewFile(path string) *FileLogger {
	return &FileLogger{path: path, now: time.Now}
}

type fileRecord struct {
	Timestamp    string `json:"ts"`
	Type         string `json:"type"`
	Tool         string `json:"tool,omitempty"`
	InvocationID string `json:"invocation_id,omitempty"`
	Decision     string `json:"decision,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// Record appends one JSON line for the event.
func (l *FileLogger) Record(_ context.Context, event Event) {
	if l == nil || l.path == "" {
		return
	}
	data, err := json.Marshal(fileRecord{
		Timestamp:    l.now().UTC().Format(time.RFC3339),
		Type:         event.Type,
		Tool:         event.Tool,
		InvocationID: event.InvocationID,
		Decision:     event.Decision,
		Reason:       event.Reason,
	})
	if err != nil {
		return
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(append(data, '\n'))
}
