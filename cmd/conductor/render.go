package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/conductor/internal/orchestrator"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	phaseStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	faintStyle = lipgloss.NewStyle().Faint(true)
	bodyStyle  = lipgloss.NewStyle().PaddingLeft(2)
)

// previewLimit keeps rendered phase output readable in a terminal; the full
// text lives in the run directory.
const previewLimit = 400

// renderSummary formats a workflow result for terminal display.
func renderSummary(runDir string, result *orchestrator.WorkflowResult) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Workflow summary"))
	sb.WriteString("\n")
	sb.WriteString(faintStyle.Render("records: " + runDir))
	sb.WriteString("\n\n")

	for _, phase := range result.Phases() {
		text, _ := result.Get(phase)
		sb.WriteString(phaseStyle.Render(phase))
		sb.WriteString("\n")
		sb.WriteString(bodyStyle.Render(previewText(text)))
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func previewText(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= previewLimit {
		return string(runes)
	}
	return string(runes[:previewLimit]) + " …"
}
