package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/conductor/internal/instructions"
	"github.com/fyrsmithlabs/conductor/internal/prompt"
	"github.com/fyrsmithlabs/conductor/internal/registry"
	"github.com/fyrsmithlabs/conductor/internal/store"
	"github.com/fyrsmithlabs/conductor/internal/worker"
)

const instrumentationName = "github.com/fyrsmithlabs/conductor/internal/orchestrator"

// Executor runs one phase end-to-end: configuration lookup, instruction
// loading, payload assembly, worker invocation, and record persistence.
type Executor struct {
	registry *registry.Registry
	loader   *instructions.Loader
	builder  *prompt.Builder
	worker   worker.Worker
	store    store.Store
	logger   *zap.Logger

	tracer       trace.Tracer
	meter        metric.Meter
	phaseCounter metric.Int64Counter
}

// NewExecutor wires an executor from its collaborators.
func NewExecutor(reg *registry.Registry, loader *instructions.Loader, builder *prompt.Builder, w worker.Worker, st store.Store, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Executor{
		registry: reg,
		loader:   loader,
		builder:  builder,
		worker:   w,
		store:    st,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
		meter:    otel.Meter(instrumentationName),
	}

	var err error
	e.phaseCounter, err = e.meter.Int64Counter(
		"conductor.phase.executions_total",
		metric.WithDescription("Total number of phase executions"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		e.logger.Warn("failed to create phase counter", zap.Error(err))
	}

	return e
}

// ExecutePhase runs a single phase and persists its record, returning the
// record and its storage locator.
//
// A worker failure is not an error here: it is captured into the record's
// error text so the controller can decide how the run proceeds. The returned
// error is non-nil only for failures that must abort the run, which in
// practice means persistence.
func (e *Executor) ExecutePhase(ctx context.Context, phaseID, task string, prior []prompt.PriorResult) (*store.PhaseRecord, string, error) {
	ctx, span := e.tracer.Start(ctx, "orchestrator.execute_phase",
		trace.WithAttributes(attribute.String("phase", phaseID)))
	defer span.End()

	cfg := e.registry.Resolve(phaseID)

	instruction, err := e.loader.Load(ctx, phaseID)
	if err != nil {
		// Any loader failure is a configuration gap: substitute and keep
		// the phase alive.
		instruction = instructions.Synthesized(phaseID)
		e.logger.Warn("instruction loading failed, using synthesized instruction",
			zap.String("phase", phaseID), zap.Error(err))
	}

	payload := e.builder.Assemble(task, prior, instruction)

	e.logger.Info("executing phase",
		zap.String("phase", phaseID),
		zap.String("tier", string(cfg.Tier)),
		zap.Int("payload_len", len(payload)),
		zap.Int("prior_phases", len(prior)))

	record := &store.PhaseRecord{Phase: phaseID}

	resp, invokeErr := e.worker.Invoke(ctx, worker.Request{
		Phase:        phaseID,
		Capabilities: cfg.Capabilities,
		Tier:         cfg.Tier,
		Payload:      payload,
	})
	record.Timestamp = time.Now().UTC()

	if invokeErr != nil {
		record.Error = invokeErr.Error()
		span.SetAttributes(attribute.Bool("failed", true))
		e.logger.Warn("worker invocation failed",
			zap.String("phase", phaseID), zap.Error(invokeErr))
	} else {
		record.Result = resp.Result
	}

	if e.phaseCounter != nil {
		e.phaseCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("phase", phaseID),
			attribute.Bool("failed", record.Failed()),
		))
	}

	locator, err := e.store.PersistPhase(ctx, record)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", fmt.Errorf("failed to persist record for phase %s: %w", phaseID, err)
	}

	return record, locator, nil
}
