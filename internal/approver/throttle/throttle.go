package throttle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codex-k8s/toolgate/internal/gate/approver"
)

// Approver enforces a sliding-window budget on escalations. The gate lives
// for a single decision, so the window state is persisted to a small JSON
// file between invocations.
type Approver struct {
	// Path is the state file location.
	Path string
	// Max is the escalation budget per window.
	Max int
	// Window is the sliding window duration.
	Window time.Duration

	now func() time.Time
}

// New returns a throttle approver backed by the state file at path.
func New(path string, max int, window time.Duration) *Approver {
	return &Approver{Path: path, Max: max, Window: window, now: time.Now}
}

// Name returns the approver name for audit and logging.
func (a *Approver) Name() string {
	return "throttle"
}

type state struct {
	Escalations []time.Time `json:"escalations"`
}

// Approve denies when the escalation budget for the window is spent, and
// otherwise records this escalation. An unreadable or corrupt state file
// starts a fresh window rather than blocking the gate.
func (a *Approver) Approve(_ context.Context, _ approver.Request) (approver.Decision, error) {
	if a.Max <= 0 || a.Window <= 0 {
		return approver.Decision{Allowed: true, Source: a.Name()}, nil
	}

	recent := a.load()
	if len(recent) >= a.Max {
		reason := fmt.Sprintf("escalation limit reached (%d per %s)", a.Max, a.Window)
		return approver.Decision{Allowed: false, Reason: reason, Source: a.Name()}, nil
	}

	recent = append(recent, a.now())
	if err := a.save(recent); err != nil {
		return approver.Decision{}, fmt.Errorf("persist throttle state: %w", err)
	}
	return approver.Decision{Allowed: true, Source: a.Name()}, nil
}

func (a *Approver) load() []time.Time {
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil
	}
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	cutoff := a.now().Add(-a.Window)
	recent := s.Escalations[:0]
	for _, t := range s.Escalations {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}

func (a *Approver) save(stamps []time.Time) error {
	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(state{Escalations: stamps})
	if err != nil {
		return err
	}
	tmp := a.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, a.Path)
}
