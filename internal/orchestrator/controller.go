package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/conductor/internal/prompt"
	"github.com/fyrsmithlabs/conductor/internal/store"
)

// ErrRunHalted indicates the failure policy stopped the run before all
// configured phases were attempted.
var ErrRunHalted = errors.New("run halted by failure policy")

// Controller is the public entry point for one orchestration run. It drives
// the configured phase order, folds each phase's outcome into the running
// result, and persists the final summary.
type Controller struct {
	phases   []string
	executor *Executor
	store    store.Store
	policy   FailurePolicy
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewController creates a controller. Empty phases falls back to
// DefaultPhases; nil policy falls back to ContinuePolicy.
func NewController(phases []string, exec *Executor, st store.Store, policy FailurePolicy, logger *zap.Logger) *Controller {
	if len(phases) == 0 {
		phases = DefaultPhases()
	}
	if policy == nil {
		policy = ContinuePolicy{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		phases:   phases,
		executor: exec,
		store:    st,
		policy:   policy,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
	}
}

// Phases returns the configured phase order.
func (c *Controller) Phases() []string {
	out := make([]string, len(c.phases))
	copy(out, c.phases)
	return out
}

// Orchestrate runs the task through every configured phase in order and
// persists the summary. The returned WorkflowResult covers every attempted
// phase, captured failures included, even when an error is also returned.
//
// Errors are returned for persistence failures (no summary is written past
// the failing record) and for a policy halt (the partial summary is
// written, wrapped in ErrRunHalted).
func (c *Controller) Orchestrate(ctx context.Context, task string) (*WorkflowResult, error) {
	ctx, span := c.tracer.Start(ctx, "orchestrator.orchestrate",
		trace.WithAttributes(attribute.Int("phases", len(c.phases))))
	defer span.End()

	c.logger.Info("starting orchestration",
		zap.Strings("phases", c.phases),
		zap.String("policy", c.policy.Name()))

	result := NewWorkflowResult()

	for _, phaseID := range c.phases {
		prior := c.priorResults(result)

		record, locator, err := c.executor.ExecutePhase(ctx, phaseID, task, prior)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return result, fmt.Errorf("phase %s: %w", phaseID, err)
		}

		if record.Failed() {
			result.Set(phaseID, record.Error)
			if c.policy.Decide(phaseID, record.Error) == DecisionHalt {
				c.logger.Warn("halting run on failed phase",
					zap.String("phase", phaseID),
					zap.String("locator", locator))
				if _, err := c.store.PersistSummary(ctx, result); err != nil {
					span.SetStatus(codes.Error, err.Error())
					return result, fmt.Errorf("failed to persist summary: %w", err)
				}
				return result, fmt.Errorf("%w: phase %s failed: %s", ErrRunHalted, phaseID, record.Error)
			}
			c.logger.Info("continuing past failed phase", zap.String("phase", phaseID))
			continue
		}

		result.Set(phaseID, record.Result)
		c.logger.Info("phase completed",
			zap.String("phase", phaseID),
			zap.String("locator", locator))
	}

	locator, err := c.store.PersistSummary(ctx, result)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, fmt.Errorf("failed to persist summary: %w", err)
	}

	c.logger.Info("orchestration complete",
		zap.Int("phases", result.Len()),
		zap.String("summary_locator", locator))
	return result, nil
}

// priorResults snapshots the running result as the prior-phase context for
// the next phase, in completion order.
func (c *Controller) priorResults(result *WorkflowResult) []prompt.PriorResult {
	phases := result.Phases()
	prior := make([]prompt.PriorResult, 0, len(phases))
	for _, phase := range phases {
		text, _ := result.Get(phase)
		prior = append(prior, prompt.PriorResult{Phase: phase, Text: text})
	}
	return prior
}
