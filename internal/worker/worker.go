// Package worker defines the call contract between the orchestration engine
// and the external workers that execute phases.
//
// A worker consumes one assembled payload and produces one result. The
// engine treats the invocation as a single opaque, potentially slow
// operation: no retries, no interpretation of the result text. Backends are
// swappable behind the Worker interface without touching orchestration
// logic.
package worker

import (
	"context"
	"errors"

	"github.com/fyrsmithlabs/conductor/internal/registry"
)

// ErrEmptyResult indicates the worker returned without producing any output.
var ErrEmptyResult = errors.New("worker returned empty result")

// Request carries everything a worker needs to execute one phase.
type Request struct {
	// Phase is the identifier of the phase being executed.
	Phase string

	// Capabilities are the tokens granted to the worker for this phase.
	Capabilities []string

	// Tier selects the worker class.
	Tier registry.Tier

	// Payload is the fully assembled input text.
	Payload string
}

// Response is a successful worker invocation's output.
type Response struct {
	Result string
}

// Worker executes one phase request. Implementations must honor context
// cancellation so an in-flight phase can be abandoned.
type Worker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// Func adapts a function to the Worker interface.
type Func func(ctx context.Context, req Request) (*Response, error)

// Invoke implements Worker.
func (f Func) Invoke(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
