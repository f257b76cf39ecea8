//go:build !windows

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/conductor/internal/config"
	"github.com/fyrsmithlabs/conductor/internal/orchestrator"
	"github.com/fyrsmithlabs/conductor/internal/registry"
)

func resetFlags() {
	configPath = ""
	flagOutputDir = ""
	flagInstructionsDir = ""
	flagPhases = nil
	flagWorkerCommand = ""
	flagHaltOnFailure = false
}

func TestRunCommandEndToEnd(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	outputDir := t.TempDir()
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{
		"run",
		"--worker", "cat",
		"--output-dir", outputDir,
		"--instructions-dir", t.TempDir(),
		"build X",
	})

	require.NoError(t, rootCmd.Execute())

	// One run directory with four phase records plus the summary.
	runs, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	records, err := os.ReadDir(filepath.Join(outputDir, runs[0].Name()))
	require.NoError(t, err)
	assert.Len(t, records, 5)

	assert.Contains(t, stdout.String(), "Workflow summary")
	assert.Contains(t, stdout.String(), "research")
}

func TestRunCommandRequiresWorker(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{
		"run",
		"--output-dir", t.TempDir(),
		"build X",
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "worker command")
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	flagOutputDir = "/tmp/out"
	flagPhases = []string{"research", "correct"}
	flagWorkerCommand = "my-worker"

	cfg := config.NewDefaultConfig()
	applyFlags(cfg)

	assert.Equal(t, "/tmp/out", cfg.Output.Root)
	assert.Equal(t, []string{"research", "correct"}, cfg.Phases)
	assert.Equal(t, "my-worker", cfg.Worker.Command)
}

func TestTierModels(t *testing.T) {
	cfg := config.NewDefaultConfig()
	models := tierModels(cfg)
	assert.Equal(t, cfg.Worker.Models["deep"], models[registry.TierDeep])
}

func TestRenderSummaryIncludesAllPhases(t *testing.T) {
	result := orchestrator.NewWorkflowResult()
	result.Set("research", "findings")
	result.Set("plan", strings.Repeat("p", 2000))

	out := renderSummary("/tmp/run", result)
	assert.Contains(t, out, "research")
	assert.Contains(t, out, "findings")
	assert.Contains(t, out, "plan")
	assert.Contains(t, out, "/tmp/run")
	assert.Contains(t, out, "…", "long output is previewed")
}
