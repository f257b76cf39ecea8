package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/conductor/internal/registry"
)

// ErrNoCommand indicates the exec worker was constructed without a command.
var ErrNoCommand = errors.New("no worker command configured")

// Environment variables describing the request to the worker process.
const (
	EnvPhase        = "CONDUCTOR_PHASE"
	EnvTier         = "CONDUCTOR_TIER"
	EnvModel        = "CONDUCTOR_MODEL"
	EnvCapabilities = "CONDUCTOR_CAPABILITIES"
)

// ExecWorker invokes an external command once per phase. The payload is
// written to the process's stdin and the result read from its stdout; phase
// metadata travels in environment variables. This is the reference transport;
// anything satisfying Worker can replace it.
type ExecWorker struct {
	command string
	args    []string
	models  map[registry.Tier]string
	logger  *zap.Logger
}

// NewExecWorker creates a subprocess-backed worker. models maps a tier to
// the model name exported to the process; missing tiers export an empty
// CONDUCTOR_MODEL.
func NewExecWorker(command string, args []string, models map[registry.Tier]string, logger *zap.Logger) (*ExecWorker, error) {
	if command == "" {
		return nil, ErrNoCommand
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecWorker{
		command: command,
		args:    args,
		models:  models,
		logger:  logger,
	}, nil
}

// Invoke runs the command for one phase request. The returned error wraps
// stderr output when the process fails, so the caller sees why.
func (w *ExecWorker) Invoke(ctx context.Context, req Request) (*Response, error) {
	cmd := exec.CommandContext(ctx, w.command, w.args...)
	cmd.Stdin = strings.NewReader(req.Payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Env = append(os.Environ(),
		EnvPhase+"="+req.Phase,
		EnvTier+"="+string(req.Tier),
		EnvModel+"="+w.models[req.Tier],
		EnvCapabilities+"="+strings.Join(req.Capabilities, ","),
	)

	w.logger.Debug("invoking worker",
		zap.String("command", w.command),
		zap.String("phase", req.Phase),
		zap.String("tier", string(req.Tier)))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("worker invocation aborted: %w", ctx.Err())
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("worker command failed: %w: %s", err, detail)
		}
		return nil, fmt.Errorf("worker command failed: %w", err)
	}

	result := strings.TrimSpace(stdout.String())
	if result == "" {
		return nil, ErrEmptyResult
	}
	return &Response{Result: result}, nil
}
