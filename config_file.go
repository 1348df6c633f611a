package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// fileConfig mirrors Config for TOML encoding. Loading goes through the
// parsed tree so keys missing from the file keep their current values.
type fileConfig struct {
	Network  string  `toml:"network" comment:"mainnet, testnet, regtest, signet or simnet"`
	Output   string  `toml:"output" comment:"text or json"`
	Hashrate float64 `toml:"hashrate" comment:"H/s for the expected block time estimate, 0 disables it"`
	LogLevel string  `toml:"log_level" comment:"debug, info, warn or error"`
}

func buildFileConfig(cfg Config) fileConfig {
	return fileConfig{
		Network:  cfg.Network,
		Output:   cfg.OutputFormat,
		Hashrate: cfg.Hashrate,
		LogLevel: cfg.LogLevel,
	}
}

// loadConfigFile applies the TOML file at path onto cfg. A missing file is
// reported as ok=false without error.
func loadConfigFile(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := applyConfigTree(cfg, tree); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func applyConfigTree(cfg *Config, tree *toml.Tree) error {
	for _, key := range tree.Keys() {
		switch key {
		case "network", "output", "hashrate", "log_level":
		default:
			logger.Warn("unknown config key ignored", "component", "config", "key", key)
		}
	}
	if tree.Has("network") {
		v, ok := tree.Get("network").(string)
		if !ok {
			return fmt.Errorf("network must be a string: %w", errInvalidArgument)
		}
		cfg.Network = v
	}
	if tree.Has("output") {
		v, ok := tree.Get("output").(string)
		if !ok {
			return fmt.Errorf("output must be a string: %w", errInvalidArgument)
		}
		cfg.OutputFormat = v
	}
	if tree.Has("hashrate") {
		switch v := tree.Get("hashrate").(type) {
		case float64:
			cfg.Hashrate = v
		case int64:
			cfg.Hashrate = float64(v)
		default:
			return fmt.Errorf("hashrate must be a number: %w", errInvalidArgument)
		}
	}
	if tree.Has("log_level") {
		v, ok := tree.Get("log_level").(string)
		if !ok {
			return fmt.Errorf("log_level must be a string: %w", errInvalidArgument)
		}
		cfg.LogLevel = v
	}
	return nil
}

func exampleConfigBytes(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(buildFileConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	header := []byte("# nbitconv config (pass with -config)\n\n")
	return append(header, data...), nil
}

// writeConfigFile writes cfg as TOML via a temp file and rename so a
// partially written file never replaces an existing one.
func writeConfigFile(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	data, err := exampleConfigBytes(cfg)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmpFile.Name()
	removeTemp := true
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
		}
		if removeTemp {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	tmpFile = nil

	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpName, path, err)
	}
	removeTemp = false
	return nil
}
