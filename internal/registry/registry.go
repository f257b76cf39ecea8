// Package registry provides deterministic lookup from phase identifiers to
// phase configurations.
//
// Resolve is total: identifiers without a built-in configuration yield a
// synthesized default instead of an error, so a data-driven phase list can
// reference new phases before anyone writes configuration for them.
package registry

import (
	"fmt"
	"strings"
)

// Tier selects the class of worker a phase runs on.
type Tier string

const (
	// TierLight is for cheap, fast phases with small outputs.
	TierLight Tier = "light"

	// TierStandard is the default worker class.
	TierStandard Tier = "standard"

	// TierDeep is for phases that need the most capable worker.
	TierDeep Tier = "deep"
)

// Capability tokens granted to phase workers.
const (
	CapabilityWebSearch = "web_search"
	CapabilityFileRead  = "file_read"
	CapabilityCodeEdit  = "code_edit"
	CapabilityTestRun   = "test_run"
)

// PhaseConfig describes one phase of the workflow. Immutable after creation.
type PhaseConfig struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
	Tier         Tier     `json:"tier"`
}

// Registry maps phase identifiers to configurations. Pure, no I/O.
type Registry struct {
	configs map[string]PhaseConfig
}

// New creates a registry seeded with the built-in phases.
func New() *Registry {
	r := &Registry{configs: make(map[string]PhaseConfig)}
	for _, cfg := range builtinConfigs() {
		r.configs[cfg.ID] = cfg
	}
	return r
}

// Register adds or replaces a phase configuration. Later Resolve calls for
// cfg.ID return cfg.
func (r *Registry) Register(cfg PhaseConfig) {
	r.configs[cfg.ID] = cfg
}

// Resolve returns the configuration for a phase identifier. Unknown
// identifiers synthesize a default config rather than failing, so Resolve is
// total over all strings.
func (r *Registry) Resolve(id string) PhaseConfig {
	if cfg, ok := r.configs[id]; ok {
		return cfg
	}
	return PhaseConfig{
		ID:           id,
		Description:  fmt.Sprintf("Custom %s phase", strings.ReplaceAll(id, "_", " ")),
		Capabilities: []string{CapabilityFileRead},
		Tier:         TierStandard,
	}
}

// Known reports whether id has an explicit (non-synthesized) configuration.
func (r *Registry) Known(id string) bool {
	_, ok := r.configs[id]
	return ok
}

func builtinConfigs() []PhaseConfig {
	return []PhaseConfig{
		{
			ID:           "research",
			Description:  "Investigate the task, gather relevant facts and constraints",
			Capabilities: []string{CapabilityWebSearch, CapabilityFileRead},
			Tier:         TierStandard,
		},
		{
			ID:           "plan",
			Description:  "Produce a concrete step-by-step plan from the research findings",
			Capabilities: []string{CapabilityFileRead},
			Tier:         TierDeep,
		},
		{
			ID:           "implement",
			Description:  "Carry out the plan and produce the deliverable",
			Capabilities: []string{CapabilityFileRead, CapabilityCodeEdit, CapabilityTestRun},
			Tier:         TierDeep,
		},
		{
			ID:           "correct",
			Description:  "Review the implementation, fix defects and loose ends",
			Capabilities: []string{CapabilityFileRead, CapabilityCodeEdit, CapabilityTestRun},
			Tier:         TierStandard,
		},
	}
}
