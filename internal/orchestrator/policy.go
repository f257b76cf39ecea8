package orchestrator

// Decision is a FailurePolicy's verdict on a failed phase.
type Decision int

const (
	// DecisionContinue proceeds to the next phase with the failure text
	// folded into the running context.
	DecisionContinue Decision = iota

	// DecisionHalt stops the run after persisting the summary of attempted
	// phases.
	DecisionHalt
)

// FailurePolicy classifies a failed phase. It is consulted only for worker
// invocation failures; persistence failures always abort the run.
type FailurePolicy interface {
	// Name returns the policy identifier for logs.
	Name() string

	// Decide returns the verdict for a phase that failed with errText.
	Decide(phase string, errText string) Decision
}

// ContinuePolicy lets the run complete with degraded context: later phases
// see the failure text and can react to it. This is the default.
type ContinuePolicy struct{}

func (ContinuePolicy) Name() string { return "continue" }

func (ContinuePolicy) Decide(string, string) Decision { return DecisionContinue }

// HaltPolicy stops the run at the first failed phase.
type HaltPolicy struct{}

func (HaltPolicy) Name() string { return "halt" }

func (HaltPolicy) Decide(string, string) Decision { return DecisionHalt }
