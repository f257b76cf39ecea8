// Package orchestrator drives one task through an ordered sequence of
// phases, each delegated to an external worker, accumulating context across
// phases into a final composite result.
//
// The package splits responsibility between two types. Executor runs a
// single phase end-to-end: registry lookup, instruction loading, payload
// assembly, worker invocation, and durable record persistence. Controller
// owns the run: it iterates the configured phase order, feeds each phase the
// results of every strictly-earlier phase (captured failures included), and
// persists the final summary.
//
// Phase-local problems (missing instructions, worker failures) are absorbed
// into the phase's record so the run proceeds with a visible failure trail;
// how the run reacts to a failed phase is delegated to a FailurePolicy.
// Storage problems are fatal: losing an audit record would defeat the
// system's traceability purpose.
package orchestrator
