// Package config loads the environment-driven tuning knobs for the VM and
// REPL via github.com/caarlos0/env/v6 struct tags.
package config

import (
	"github.com/caarlos0/env/v6"
)

// Config holds runtime limits overridable by environment variables, read
// once at process start and passed down to internal/vm.VM and internal/repl.
type Config struct {
	// MaxSteps bounds the number of instructions a single Run executes
	// before aborting, guarding against a runaway or adversarial script.
	MaxSteps int `env:"P2SH_MAX_STEPS" envDefault:"10000000"`

	// MaxCallDepth bounds the VM's call-frame stack independently of its
	// fixed array size, so recursion limits can be tuned without a rebuild.
	MaxCallDepth int `env:"P2SH_MAX_CALL_DEPTH" envDefault:"1024"`

	// MaxProtoDepth bounds get_inner's protocol-stack traversal, mirroring
	// MAX_PROTO_DEPTH = 10 but overridable for testing deeper encapsulation.
	MaxProtoDepth int `env:"P2SH_MAX_PROTO_DEPTH" envDefault:"10"`

	// HistorySize bounds how many lines the REPL keeps in its history.
	HistorySize int `env:"P2SH_HISTORY_SIZE" envDefault:"1000"`
}

// Load reads Config from the process environment, filling in the defaults
// above for anything unset.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
