// Package prompt assembles the payload a phase worker receives: the task
// text, a labeled block per prior phase in completion order, and the current
// phase's instructions.
//
// Assembly is a pure function of its inputs. Prior outputs are previewed
// under a rune budget so older results do not crowd out the active phase's
// directives; the instruction block is placed last and is never truncated.
package prompt

import (
	"fmt"
	"strings"
)

// DefaultThreshold is the rune budget for a single prior-phase preview.
const DefaultThreshold = 1000

// TruncationMarker is appended to a preview when the original exceeded the
// threshold.
const TruncationMarker = "\n[... output truncated]"

// PriorResult is one completed phase's output, in completion order.
type PriorResult struct {
	Phase string
	Text  string
}

// Builder assembles phase payloads with a fixed truncation threshold.
type Builder struct {
	threshold int
}

// NewBuilder creates a builder. A non-positive threshold falls back to
// DefaultThreshold.
func NewBuilder(threshold int) *Builder {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Builder{threshold: threshold}
}

// Threshold returns the preview rune budget.
func (b *Builder) Threshold() int {
	return b.threshold
}

// Assemble builds the full payload for a phase. The first phase of a run has
// no prior block at all.
func (b *Builder) Assemble(task string, prior []PriorResult, instruction string) string {
	var sb strings.Builder

	sb.WriteString("# Task\n\n")
	sb.WriteString(strings.TrimSpace(task))
	sb.WriteString("\n")

	for _, p := range prior {
		sb.WriteString(fmt.Sprintf("\n## Output from phase: %s\n\n", p.Phase))
		sb.WriteString(b.preview(p.Text))
		sb.WriteString("\n")
	}

	sb.WriteString("\n# Instructions\n\n")
	sb.WriteString(strings.TrimSpace(instruction))
	sb.WriteString("\n")

	return sb.String()
}

// preview returns text limited to the threshold: the first threshold runes
// plus the marker when the original was longer, verbatim otherwise.
func (b *Builder) preview(text string) string {
	runes := []rune(text)
	if len(runes) <= b.threshold {
		return text
	}
	return string(runes[:b.threshold]) + TruncationMarker
}
