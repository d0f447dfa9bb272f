package core

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Options mirrors the global option set original_source/options.c keeps
// as process-wide bools/ints, but as an explicit struct threaded through
// solver.New rather than package-level state.
type Options struct {
	// SAT engine.
	RestartBase     int64   `yaml:"restart_base"`      // Luby base factor, default 256 conflicts.
	VarDecay        float64 `yaml:"var_decay"`         // VSIDS activity decay, applied after every conflict.
	ClauseDecay     float64 `yaml:"clause_decay"`      // learnt clause activity decay.
	MaxLearned      int     `yaml:"max_learned"`       // clause DB soft cap before deletion runs.

	// Propagator queue.
	PriorityLevels int `yaml:"priority_levels"` // spec.md fixes this at 8.

	// Constraint store.
	MaxLookupArity int `yaml:"max_lookup_arity"` // ConfigError if a symbol declares a longer lookup.
	PurgeAmortizeN int `yaml:"purge_amortize_n"` // scrub store buckets every Nth purge.

	// CHR VM.
	MaxRegisters       int `yaml:"max_registers"`        // RangeError above this (spec.md caps at 256).
	MaxValueStack      int `yaml:"max_value_stack"`      // spec.md caps at 1024.
	MaxChoicepointStack int `yaml:"max_choicepoint_stack"` // spec.md: bounded by rule arity.
	RewriteMaxDepth    int `yaml:"rewrite_max_depth"`    // spec.md fixes this at 64.

	// Debug.
	Silent    bool `yaml:"silent"`
	Verbosity int  `yaml:"verbosity"`
}

// DefaultOptions mirrors the constants implied by spec.md (Luby base
// 256, 8 priority levels, rewrite depth 64, VM caps of 256/1024).
func DefaultOptions() Options {
	return Options{
		RestartBase:         256,
		VarDecay:            0.95,
		ClauseDecay:         0.999,
		MaxLearned:          2000,
		PriorityLevels:      8,
		MaxLookupArity:      4,
		PurgeAmortizeN:      64,
		MaxRegisters:        256,
		MaxValueStack:       1024,
		MaxChoicepointStack: 64,
		RewriteMaxDepth:     64,
		Silent:              false,
		Verbosity:           0,
	}
}

// LoadOptions reads a YAML options document, starting from
// DefaultOptions so a partial file only overrides what it mentions.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, Errorf(KindConfig, "core", "LoadOptions", "%v", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, Errorf(KindConfig, "core", "LoadOptions", "malformed options file: %v", err)
	}
	return opts, nil
}
