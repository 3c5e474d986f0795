package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config stores environment-driven settings for the gate.
type Config struct {
	// TaskID enables the gate; an empty value makes the hook inert.
	TaskID string `env:"TOOLGATE_TASK_ID"`
	// ApprovalServerURL is the base URL of the approval service.
	ApprovalServerURL string `env:"APPROVAL_SERVER_URL" envDefault:"http://localhost:3001"`
	// PolicyPath points to the policy YAML; empty selects the embedded default.
	PolicyPath string `env:"TOOLGATE_POLICY_FILE"`
	// AuthTokenFile is the path of the plaintext approval credential.
	AuthTokenFile string `env:"TOOLGATE_AUTH_TOKEN_FILE" envDefault:"~/.toolgate/auth-token"`
	// ApprovalTimeout bounds the remote approval round trip.
	ApprovalTimeout time.Duration `env:"TOOLGATE_APPROVAL_TIMEOUT" envDefault:"300s"`
	// LogLevel sets the logger level.
	LogLevel string `env:"TOOLGATE_LOG_LEVEL" envDefault:"info"`
	// DebugLog is an optional append-only debug file; empty disables it.
	DebugLog string `env:"TOOLGATE_DEBUG_LOG"`
}

// Load parses environment variables into Config.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	cfg.AuthTokenFile = expandHome(cfg.AuthTokenFile)
	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
