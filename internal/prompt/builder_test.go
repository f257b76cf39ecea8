package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleFirstPhaseHasNoPriorBlock(t *testing.T) {
	b := NewBuilder(0)

	payload := b.Assemble("build X", nil, "do the research")
	assert.Contains(t, payload, "# Task\n\nbuild X")
	assert.Contains(t, payload, "# Instructions\n\ndo the research")
	assert.NotContains(t, payload, "## Output from phase")
}

func TestAssembleIncludesPriorResultsInOrder(t *testing.T) {
	b := NewBuilder(0)

	prior := []PriorResult{
		{Phase: "research", Text: "findings"},
		{Phase: "plan", Text: "steps"},
	}
	payload := b.Assemble("build X", prior, "implement it")

	researchIdx := strings.Index(payload, "## Output from phase: research")
	planIdx := strings.Index(payload, "## Output from phase: plan")
	instrIdx := strings.Index(payload, "# Instructions")

	require.NotEqual(t, -1, researchIdx)
	require.NotEqual(t, -1, planIdx)
	require.NotEqual(t, -1, instrIdx)
	assert.Less(t, researchIdx, planIdx)
	assert.Less(t, planIdx, instrIdx)
	assert.Contains(t, payload, "findings")
	assert.Contains(t, payload, "steps")
}

func TestPreviewTruncationLaw(t *testing.T) {
	const n = 1000

	tests := []struct {
		name      string
		length    int
		truncated bool
	}{
		{"under threshold", 999, false},
		{"exactly threshold", 1000, false},
		{"over threshold", 1001, true},
		{"far over threshold", 5000, true},
	}

	b := NewBuilder(n)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.length)
			got := b.preview(text)

			if tt.truncated {
				require.True(t, strings.HasSuffix(got, TruncationMarker))
				body := strings.TrimSuffix(got, TruncationMarker)
				assert.Equal(t, n, utf8.RuneCountInString(body))
				assert.Equal(t, text[:n], body)
			} else {
				assert.Equal(t, text, got)
			}
		})
	}
}

func TestPreviewCountsRunesNotBytes(t *testing.T) {
	b := NewBuilder(10)

	text := strings.Repeat("世", 11)
	got := b.preview(text)
	require.True(t, strings.HasSuffix(got, TruncationMarker))
	body := strings.TrimSuffix(got, TruncationMarker)
	assert.Equal(t, strings.Repeat("世", 10), body)
}

func TestInstructionNeverTruncated(t *testing.T) {
	b := NewBuilder(50)

	instruction := strings.Repeat("directive ", 100)
	payload := b.Assemble("task", []PriorResult{{Phase: "research", Text: strings.Repeat("x", 500)}}, instruction)
	assert.Contains(t, payload, strings.TrimSpace(instruction))
}

func TestAssembleIsDeterministic(t *testing.T) {
	b := NewBuilder(100)
	prior := []PriorResult{{Phase: "research", Text: strings.Repeat("r", 200)}}

	first := b.Assemble("task", prior, "instr")
	second := b.Assemble("task", prior, "instr")
	assert.Equal(t, first, second)
}

func TestNewBuilderDefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewBuilder(0).Threshold())
	assert.Equal(t, DefaultThreshold, NewBuilder(-5).Threshold())
	assert.Equal(t, 42, NewBuilder(42).Threshold())
}
