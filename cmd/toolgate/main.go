package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/codex-k8s/toolgate/configs"
	"github.com/codex-k8s/toolgate/internal/approver/fields"
	gatehttp "github.com/codex-k8s/toolgate/internal/approver/http"
	"github.com/codex-k8s/toolgate/internal/approver/throttle"
	"github.com/codex-k8s/toolgate/internal/audit"
	"github.com/codex-k8s/toolgate/internal/auth"
	"github.com/codex-k8s/toolgate/internal/config"
	"github.com/codex-k8s/toolgate/internal/gate"
	"github.com/codex-k8s/toolgate/internal/gate/approver"
	"github.com/codex-k8s/toolgate/internal/log"
	"github.com/codex-k8s/toolgate/internal/policy"
	"github.com/codex-k8s/toolgate/internal/render"
	"github.com/codex-k8s/toolgate/internal/timeutil"
)

func main() {
	policyPath := flag.String("policy", "", "Path to the policy YAML (overrides TOOLGATE_POLICY_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel)

	// The runtime kills the process on its own schedule; a signal aborts
	// the in-flight approval call through context cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *policyPath, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("gate failed", "error", err)
		os.Exit(1)
	}
}

// run handles one hook invocation end to end. Without a task id the hook is
// installed but inert: it returns before reading in or writing to out, so
// the runtime sees exit 0 with no opinion regardless of what is on stdin.
func run(ctx context.Context, cfg config.Config, policyPath string, logger *slog.Logger, in io.Reader, out io.Writer) error {
	if strings.TrimSpace(cfg.TaskID) == "" {
		logger.Debug("no task id, gate inert")
		return nil
	}

	path := policyPath
	if path == "" {
		path = cfg.PolicyPath
	}

	var rendered []byte
	if path == "" {
		raw, err := configs.Load(configs.DefaultName)
		if err != nil {
			return fmt.Errorf("load embedded policy: %w", err)
		}
		rendered, err = render.RenderBytes(configs.DefaultName, raw)
		if err != nil {
			return fmt.Errorf("render policy: %w", err)
		}
	} else {
		var err error
		rendered, err = render.RenderFile(path)
		if err != nil {
			return fmt.Errorf("render policy: %w", err)
		}
	}

	pol, err := policy.Load(rendered)
	if err != nil {
		return fmt.Errorf("parse policy: %w", err)
	}

	chain, err := buildChain(cfg, pol.Gate)
	if err != nil {
		return fmt.Errorf("build approver chain: %w", err)
	}

	sinks := audit.Fanout{audit.New(logger)}
	if cfg.DebugLog != "" {
		sinks = append(sinks, audit.NewFile(cfg.DebugLog))
	}

	g := gate.Gate{
		Logger:     logger,
		Audit:      sinks,
		Classifier: policy.NewClassifier(pol.Gate),
		Chain:      chain,
		FailMode:   pol.Gate.FailMode,
	}

	if err := g.Run(ctx, in, out); err != nil {
		return fmt.Errorf("emit decision: %w", err)
	}
	return nil
}

func buildChain(cfg config.Config, pol policy.GateConfig) (approver.Chain, error) {
	var items []approver.Approver

	if len(pol.Fields) > 0 {
		item, err := fields.New(pol.Fields)
		if err != nil {
			return approver.Chain{}, err
		}
		items = append(items, item)
	}

	if pol.Throttle.Enabled {
		statePath := pol.Throttle.StateFile
		if statePath == "" {
			statePath = filepath.Join(filepath.Dir(cfg.AuthTokenFile), "escalations.json")
		}
		window := timeutil.ParseDurationOrDefault(pol.Throttle.Window, 0)
		items = append(items, throttle.New(statePath, pol.Throttle.MaxPerWindow, window))
	}

	remote := gatehttp.Client{
		BaseURL: cfg.ApprovalServerURL,
		Token: func() (string, error) {
			return auth.ReadToken(cfg.AuthTokenFile)
		},
		Timeout: cfg.ApprovalTimeout,
	}
	items = append(items, approver.Timeout{Inner: remote, Timeout: cfg.ApprovalTimeout})

	return approver.Chain{Approvers: items}, nil
}
