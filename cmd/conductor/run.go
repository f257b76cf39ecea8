package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/conductor/internal/config"
	"github.com/fyrsmithlabs/conductor/internal/instructions"
	"github.com/fyrsmithlabs/conductor/internal/logging"
	"github.com/fyrsmithlabs/conductor/internal/orchestrator"
	"github.com/fyrsmithlabs/conductor/internal/prompt"
	"github.com/fyrsmithlabs/conductor/internal/registry"
	"github.com/fyrsmithlabs/conductor/internal/store"
	"github.com/fyrsmithlabs/conductor/internal/worker"
)

var (
	flagOutputDir       string
	flagInstructionsDir string
	flagPhases          []string
	flagWorkerCommand   string
	flagHaltOnFailure   bool
)

var runCmd = &cobra.Command{
	Use:   "run \"task description\"",
	Short: "Run a task through every configured phase",
	Long: `Run a task through every configured phase in order, persisting one
record per phase plus a final summary.

The task is a free-text goal description. Each phase's worker receives the
task, a preview of every earlier phase's output, and the phase's
instructions.

Examples:
  # Run with defaults
  conductor run "add rate limiting to the API gateway"

  # Custom phase order and halt on the first failure
  conductor run --phases research,implement --halt-on-failure "fix the flaky test"`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "root directory for run output (overrides config)")
	runCmd.Flags().StringVar(&flagInstructionsDir, "instructions-dir", "", "directory with per-phase instruction files (overrides config)")
	runCmd.Flags().StringSliceVar(&flagPhases, "phases", nil, "ordered phase identifiers (overrides config)")
	runCmd.Flags().StringVar(&flagWorkerCommand, "worker", "", "worker command to invoke per phase (overrides config)")
	runCmd.Flags().BoolVar(&flagHaltOnFailure, "halt-on-failure", false, "stop the run at the first failed phase")
}

func runRun(cmd *cobra.Command, args []string) error {
	task := args[0]

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	if cfg.Worker.Command == "" {
		return errors.New("no worker command configured: set worker.command or pass --worker")
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := store.NewRunID()
	runDir := filepath.Join(cfg.Output.Root, runID)

	st, err := store.NewFSStore(runDir, logger.Named("store"))
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	w, err := worker.NewExecWorker(cfg.Worker.Command, cfg.Worker.Args, tierModels(cfg), logger.Named("worker"))
	if err != nil {
		return err
	}

	exec := orchestrator.NewExecutor(
		registry.New(),
		instructions.NewLoader(cfg.Instructions.Dir, logger.Named("instructions")),
		prompt.NewBuilder(cfg.Truncation.Threshold),
		w,
		st,
		logger.Named("executor"),
	)

	var policy orchestrator.FailurePolicy = orchestrator.ContinuePolicy{}
	if flagHaltOnFailure {
		policy = orchestrator.HaltPolicy{}
	}

	controller := orchestrator.NewController(cfg.Phases, exec, st, policy, logger.Named("controller"))

	logger.Info("starting run", zap.String("run_id", runID), zap.String("run_dir", runDir))

	result, err := controller.Orchestrate(ctx, task)
	if err != nil {
		if errors.Is(err, orchestrator.ErrRunHalted) {
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(runDir, result))
		}
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(runDir, result))
	return nil
}

// applyFlags overlays command-line flags onto the loaded config.
func applyFlags(cfg *config.Config) {
	if flagOutputDir != "" {
		cfg.Output.Root = flagOutputDir
	}
	if flagInstructionsDir != "" {
		cfg.Instructions.Dir = flagInstructionsDir
	}
	if len(flagPhases) > 0 {
		cfg.Phases = flagPhases
	}
	if flagWorkerCommand != "" {
		cfg.Worker.Command = flagWorkerCommand
	}
}

// tierModels converts the config's string-keyed model map to tier keys.
func tierModels(cfg *config.Config) map[registry.Tier]string {
	models := make(map[registry.Tier]string, len(cfg.Worker.Models))
	for tier, model := range cfg.Worker.Models {
		models[registry.Tier(tier)] = model
	}
	return models
}
