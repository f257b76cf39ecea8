package orchestrator

import (
	"bytes"
	"encoding/json"
)

// DefaultPhases is the default phase execution order.
func DefaultPhases() []string {
	return []string{"research", "plan", "implement", "correct"}
}

// WorkflowResult is the ordered mapping from phase identifier to result
// text, grown monotonically as phases complete. A failed phase's entry holds
// its captured error text, so later phases and the final summary see the
// failure trail. One controller instance owns a WorkflowResult for the
// duration of one run; it is never shared across runs.
type WorkflowResult struct {
	order   []string
	entries map[string]string
}

// NewWorkflowResult creates an empty result.
func NewWorkflowResult() *WorkflowResult {
	return &WorkflowResult{entries: make(map[string]string)}
}

// Set records a phase's result text. The first Set for a phase fixes its
// position in the completion order; a later Set for the same phase replaces
// the text in place.
func (r *WorkflowResult) Set(phase, text string) {
	if _, ok := r.entries[phase]; !ok {
		r.order = append(r.order, phase)
	}
	r.entries[phase] = text
}

// Get returns the result text for a phase.
func (r *WorkflowResult) Get(phase string) (string, bool) {
	text, ok := r.entries[phase]
	return text, ok
}

// Phases returns the phase identifiers in completion order.
func (r *WorkflowResult) Phases() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of completed phases.
func (r *WorkflowResult) Len() int {
	return len(r.order)
}

// MarshalJSON encodes the result as a JSON object with keys in completion
// order, matching the persisted summary schema.
func (r *WorkflowResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, phase := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(phase)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.entries[phase])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
