package policy

import "strings"

// Classification results, in evaluation order. Earlier classes short-circuit
// and must never reach the approval channel.
const (
	ClassSafe     = "safe"
	ClassTrusted  = "trusted"
	ClassEscalate = "escalate"
)

// Classifier resolves tool names against the safe list and trusted prefixes.
// It is deterministic and side-effect free.
type Classifier struct {
	safe     map[string]struct{}
	prefixes []string
}

// NewClassifier builds a classifier from the gate policy.
func NewClassifier(cfg GateConfig) Classifier {
	safe := make(map[string]struct{}, len(cfg.SafeTools))
	for _, name := range cfg.SafeTools {
		safe[name] = struct{}{}
	}
	return Classifier{
		safe:     safe,
		prefixes: append([]string(nil), cfg.TrustedPrefixes...),
	}
}

// Classify returns the first matching class for a tool name. Matching is
// exact: tool names are case-sensitive identifiers, not free text.
func (c Classifier) Classify(toolName string) string {
	name := strings.TrimSpace(toolName)
	if _, ok := c.safe[name]; ok {
		return ClassSafe
	}
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(name, prefix) {
			return ClassTrusted
		}
	}
	return ClassEscalate
}
