package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/conductor/internal/config"
	"github.com/fyrsmithlabs/conductor/internal/registry"
)

var phasesCmd = &cobra.Command{
	Use:   "phases",
	Short: "List the configured phases and their worker configuration",
	RunE:  runPhases,
}

func runPhases(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg := registry.New()
	out := cmd.OutOrStdout()

	for i, id := range cfg.Phases {
		pc := reg.Resolve(id)
		fmt.Fprintf(out, "%d. %s", i+1, phaseStyle.Render(pc.ID))
		if !reg.Known(id) {
			fmt.Fprint(out, faintStyle.Render(" (synthesized)"))
		}
		fmt.Fprintf(out, "\n   %s\n", pc.Description)
		fmt.Fprintf(out, "   tier: %s  capabilities: %s\n", pc.Tier, strings.Join(pc.Capabilities, ", "))
	}
	return nil
}
