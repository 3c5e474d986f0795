package fields

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/codex-k8s/toolgate/internal/gate/approver"
	"github.com/codex-k8s/toolgate/internal/policy"
)

// Approver validates tool input fields against the policy before a request
// reaches the human channel. A violation denies locally; fields absent from
// the input are skipped.
type Approver struct {
	policies map[string]policy.FieldPolicy
	compiled map[string]*regexp.Regexp
}

// New creates a fields approver and compiles regex rules.
func New(policies map[string]policy.FieldPolicy) (*Approver, error) {
	compiled := make(map[string]*regexp.Regexp, len(policies))
	for field, p := range policies {
		if p.Regex == "" {
			continue
		}
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("invalid regex for field %s: %w", field, err)
		}
		compiled[field] = re
	}
	return &Approver{policies: policies, compiled: compiled}, nil
}

// Name returns the approver name for audit and logging.
func (a *Approver) Name() string {
	return "fields"
}

// Approve checks each configured field policy against the tool input.
func (a *Approver) Approve(_ context.Context, req approver.Request) (approver.Decision, error) {
	if reason := a.check(req.ToolInput); reason != "" {
		return approver.Decision{Allowed: false, Reason: reason, Source: a.Name()}, nil
	}
	return approver.Decision{Allowed: true, Source: a.Name()}, nil
}

func (a *Approver) check(input map[string]any) string {
	// Fields are checked in name order so the reported violation is the
	// same for identical requests.
	names := make([]string, 0, len(a.policies))
	for field := range a.policies {
		names = append(names, field)
	}
	sort.Strings(names)

	for _, field := range names {
		p := a.policies[field]
		value, ok := input[field]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case string:
			if p.MinLength != nil && len(v) < *p.MinLength {
				return fmt.Sprintf("field %s is shorter than %d", field, *p.MinLength)
			}
			if p.MaxLength != nil && len(v) > *p.MaxLength {
				return fmt.Sprintf("field %s is longer than %d", field, *p.MaxLength)
			}
			if re := a.compiled[field]; re != nil && !re.MatchString(v) {
				return fmt.Sprintf("field %s does not match required format", field)
			}
		case float64:
			if reason := checkRange(field, v, p); reason != "" {
				return reason
			}
		case int:
			if reason := checkRange(field, float64(v), p); reason != "" {
				return reason
			}
		}
	}
	return ""
}

func checkRange(field string, value float64, p policy.FieldPolicy) string {
	if p.Min != nil && value < *p.Min {
		return fmt.Sprintf("field %s is below minimum %v", field, *p.Min)
	}
	if p.Max != nil && value > *p.Max {
		return fmt.Sprintf("field %s is above maximum %v", field, *p.Max)
	}
	return ""
}
