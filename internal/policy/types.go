package policy

// Fail modes select what the gate decides when the approval channel itself
// breaks or the inbound request is unparseable.
const (
	// FailClosed denies on any approval-channel failure (default).
	FailClosed = "closed"
	// FailOpen allows a malformed inbound request through. Downstream
	// approval failures still deny. Kept for one legacy deployment mode;
	// do not use for authenticated setups.
	FailOpen = "open"
)

// Config is the top-level YAML policy.
type Config struct {
	// Gate holds the decision policy.
	Gate GateConfig `yaml:"gate"`
}

// GateConfig defines the decision policy for tool calls.
type GateConfig struct {
	// SafeTools lists tool names allowed without escalation.
	SafeTools []string `yaml:"safe_tools"`
	// TrustedPrefixes lists tool-name prefixes allowed without escalation.
	TrustedPrefixes []string `yaml:"trusted_prefixes"`
	// FailMode selects the stance on approval-channel failure ("closed" or "open").
	FailMode string `yaml:"fail_mode"`
	// Fields validates tool input fields before escalating.
	Fields map[string]FieldPolicy `yaml:"fields"`
	// Throttle bounds how many escalations may be raised per window.
	Throttle ThrottleConfig `yaml:"throttle"`
}

// FieldPolicy describes validation rules for a single tool input field.
type FieldPolicy struct {
	// Regex validates string value format.
	Regex string `yaml:"regex"`
	// Min sets numeric minimum.
	Min *float64 `yaml:"min"`
	// Max sets numeric maximum.
	Max *float64 `yaml:"max"`
	// MinLength sets string minimum length.
	MinLength *int `yaml:"min_length"`
	// MaxLength sets string maximum length.
	MaxLength *int `yaml:"max_length"`
}

// ThrottleConfig limits escalation volume so one agent loop cannot flood
// the human approval channel.
type ThrottleConfig struct {
	// Enabled toggles the throttle.
	Enabled bool `yaml:"enabled"`
	// MaxPerWindow is the escalation budget per window.
	MaxPerWindow int `yaml:"max_per_window"`
	// Window is the sliding window duration.
	Window string `yaml:"window"`
	// StateFile overrides where escalation timestamps are persisted.
	StateFile string `yaml:"state_file"`
}
