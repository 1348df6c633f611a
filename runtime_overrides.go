package main

import (
	"fmt"
)

// runtimeOverrides holds command-line values that take precedence over the
// config file.
type runtimeOverrides struct {
	network  string
	json     bool
	hashrate *float64
	debug    bool
	quiet    bool
}

func applyRuntimeOverrides(cfg *Config, overrides runtimeOverrides) error {
	if overrides.debug && overrides.quiet {
		return fmt.Errorf("only one of -debug, -quiet may be set: %w", errInvalidArgument)
	}
	if overrides.network != "" {
		cfg.Network = overrides.network
	}
	if overrides.json {
		cfg.OutputFormat = outputJSON
	}
	if overrides.hashrate != nil {
		cfg.Hashrate = *overrides.hashrate
	}
	switch {
	case overrides.debug:
		cfg.LogLevel = "debug"
	case overrides.quiet:
		cfg.LogLevel = "error"
	}
	return nil
}
