package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const usageText = `Usage: nbitconv [flags] <difficulty> [nBitsHex]
       nbitconv [flags] -bits <nBitsHex>

Converts a decimal mining difficulty to compact nBits and nBits back to a
difficulty. When nBitsHex is omitted, the nBits computed from the
difficulty are decoded.

Flags:
`

func main() {
	code := run(os.Args[1:], os.Stdout, os.Stderr)
	logger.Stop()
	os.Exit(code)
}

// run parses args, performs the conversions and writes the report to
// stdout. The returned value is the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	stderr = &syncWriter{w: stderr}
	logger.setWriter(stderr)
	defer func() {
		logger.Flush()
		logger.setWriter(os.Stderr)
	}()

	fs := flag.NewFlagSet("nbitconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}

	configFlag := fs.String("config", "", "path to a TOML config file")
	writeConfigFlag := fs.String("write-config", "", "write an example TOML config to this path")
	networkFlag := fs.String("network", "", "network for the pow limit check: mainnet, testnet, regtest, signet, simnet")
	bitsFlag := fs.String("bits", "", "nBits hex to decode (decode only when no difficulty is given)")
	jsonFlag := fs.Bool("json", false, "write the report as JSON")
	debugFlag := fs.Bool("debug", false, "enable debug logging of codec steps")
	quietFlag := fs.Bool("quiet", false, "only log errors")
	var hashrateFlag *float64
	fs.Func("hashrate", "hashrate in H/s for the expected block time estimate", func(v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		if f < 0 {
			return fmt.Errorf("must be >= 0")
		}
		hashrateFlag = &f
		return nil
	})
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitInvalidArgument
	}

	cfg := defaultConfig()
	if *configFlag != "" {
		ok, err := loadConfigFile(*configFlag, &cfg)
		if err != nil {
			return fail("config", err)
		}
		if !ok {
			return fail("config", fmt.Errorf("config file %s not found: %w", *configFlag, errInvalidArgument))
		}
	}
	overrides := runtimeOverrides{
		network:  *networkFlag,
		json:     *jsonFlag,
		hashrate: hashrateFlag,
		debug:    *debugFlag,
		quiet:    *quietFlag,
	}
	if err := applyRuntimeOverrides(&cfg, overrides); err != nil {
		return fail("config", err)
	}
	if err := validateConfig(cfg); err != nil {
		return fail("config", err)
	}
	level, _ := parseLogLevel(cfg.LogLevel)
	setLogLevel(level)

	if *writeConfigFlag != "" {
		if err := writeConfigFile(*writeConfigFlag, cfg); err != nil {
			return fail("write config", err)
		}
		logger.Info("wrote config", "component", "config", "path", *writeConfigFlag)
		if fs.NArg() == 0 && *bitsFlag == "" {
			return exitOK
		}
	}

	req, err := requestFromArgs(fs.Args(), *bitsFlag)
	if err != nil {
		fs.Usage()
		return fail("arguments", err)
	}
	params, err := chainParamsForNetwork(cfg.Network)
	if err != nil {
		return fail("config", err)
	}

	report, err := buildReport(req, cfg, params)
	if err != nil {
		return fail("conversion", err)
	}
	if err := renderReport(stdout, report, cfg.OutputFormat); err != nil {
		return fail("output", err)
	}
	return exitOK
}

func requestFromArgs(args []string, bitsFlag string) (conversionRequest, error) {
	var req conversionRequest
	switch len(args) {
	case 0:
		if bitsFlag == "" {
			return req, newConversionError("difficulty", "", errInvalidArgument, "missing value")
		}
	case 1:
		req.Difficulty = args[0]
	case 2:
		req.Difficulty = args[0]
		req.Bits = args[1]
	default:
		return req, fmt.Errorf("expected at most 2 arguments, got %d: %w", len(args), errInvalidArgument)
	}
	if bitsFlag != "" {
		if req.Bits != "" {
			return req, fmt.Errorf("nBits given both as -bits and as an argument: %w", errInvalidArgument)
		}
		req.Bits = bitsFlag
	}
	return req, nil
}

// fail logs err and maps it to the exit code. run routes the logger to its
// stderr, so this is the message the user sees.
func fail(stage string, err error) int {
	logger.Error(stage+" failed", "component", "cli", "error", err)
	return exitCodeForError(err)
}
