package main

import (
	"fmt"
	"math"
	"strings"
)

const (
	defaultNetwork      = "mainnet"
	defaultOutputFormat = outputText
	defaultLogLevel     = "warn"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type Config struct {
	// Network selects the chain whose proof-of-work limit the decoded
	// target is checked against.
	Network string
	// OutputFormat is "text" or "json".
	OutputFormat string
	// Hashrate in H/s used to estimate the expected time to find a block.
	// Zero disables the estimate.
	Hashrate float64
	LogLevel string
}

func defaultConfig() Config {
	return Config{
		Network:      defaultNetwork,
		OutputFormat: defaultOutputFormat,
		LogLevel:     defaultLogLevel,
	}
}

func validateConfig(cfg Config) error {
	if _, err := chainParamsForNetwork(cfg.Network); err != nil {
		return err
	}
	switch strings.ToLower(cfg.OutputFormat) {
	case outputText, outputJSON:
	default:
		return fmt.Errorf("output must be %q or %q, got %q: %w", outputText, outputJSON, cfg.OutputFormat, errInvalidArgument)
	}
	if math.IsNaN(cfg.Hashrate) || math.IsInf(cfg.Hashrate, 0) || cfg.Hashrate < 0 {
		return fmt.Errorf("hashrate must be a finite value >= 0, got %v: %w", cfg.Hashrate, errInvalidArgument)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return nil
}
