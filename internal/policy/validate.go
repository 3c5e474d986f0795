package policy

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Validate applies defaults and verifies required fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("policy is nil")
	}

	if cfg.Gate.FailMode == "" {
		cfg.Gate.FailMode = FailClosed
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Gate.FailMode)) {
	case FailClosed, FailOpen:
		cfg.Gate.FailMode = strings.ToLower(strings.TrimSpace(cfg.Gate.FailMode))
	default:
		return fmt.Errorf("gate.fail_mode must be closed or open")
	}

	seen := map[string]struct{}{}
	for i, name := range cfg.Gate.SafeTools {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return fmt.Errorf("gate.safe_tools[%d] is empty", i)
		}
		if _, exists := seen[trimmed]; exists {
			return fmt.Errorf("duplicate safe tool: %s", trimmed)
		}
		seen[trimmed] = struct{}{}
		cfg.Gate.SafeTools[i] = trimmed
	}

	for i, prefix := range cfg.Gate.TrustedPrefixes {
		if strings.TrimSpace(prefix) == "" {
			return fmt.Errorf("gate.trusted_prefixes[%d] is empty", i)
		}
		cfg.Gate.TrustedPrefixes[i] = strings.TrimSpace(prefix)
	}

	for field, fp := range cfg.Gate.Fields {
		if fp.Regex == "" {
			continue
		}
		if _, err := regexp.Compile(fp.Regex); err != nil {
			return fmt.Errorf("gate.fields[%s].regex is invalid: %w", field, err)
		}
	}

	if cfg.Gate.Throttle.Enabled {
		if cfg.Gate.Throttle.MaxPerWindow <= 0 {
			return fmt.Errorf("gate.throttle.max_per_window must be > 0")
		}
		if cfg.Gate.Throttle.Window == "" {
			cfg.Gate.Throttle.Window = "10m"
		}
		if _, err := time.ParseDuration(cfg.Gate.Throttle.Window); err != nil {
			return fmt.Errorf("gate.throttle.window is invalid: %w", err)
		}
	}

	return nil
}
