package main

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// chainParamsForNetwork resolves a network name to btcd chain parameters.
// The params are only read for their proof-of-work limit.
func chainParamsForNetwork(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case "mainnet", "", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest", "regressiontest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q: %w", network, errInvalidArgument)
	}
}
