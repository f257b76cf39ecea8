package store

import (
	"errors"
	"time"
)

// Validation errors for phase records.
var (
	ErrMissingPhase    = errors.New("phase record missing phase identifier")
	ErrResultAndError  = errors.New("phase record has both result and error text")
	ErrZeroTimestamp   = errors.New("phase record missing timestamp")
)

// PhaseRecord is the persisted, immutable record of one phase execution.
// Result and Error are mutually exclusive: exactly one side is populated.
type PhaseRecord struct {
	Phase     string    `json:"phase"`
	Timestamp time.Time `json:"timestamp"`
	Result    string    `json:"result"`
	Error     string    `json:"error,omitempty"`
}

// Validate checks record invariants before persistence.
func (r *PhaseRecord) Validate() error {
	if r.Phase == "" {
		return ErrMissingPhase
	}
	if r.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	if r.Result != "" && r.Error != "" {
		return ErrResultAndError
	}
	return nil
}

// Failed reports whether the record captures a failure.
func (r *PhaseRecord) Failed() bool {
	return r.Error != ""
}
