package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

// conversionRequest is the validated-at-use input to buildReport. Either
// field may be empty, but not both.
type conversionRequest struct {
	Difficulty string
	Bits       string
}

type encodeSection struct {
	Difficulty   float64 `json:"difficulty"`
	DifficultySI string  `json:"difficulty_si"`
	BitsHex      string  `json:"nbits_hex"`
	Bits         uint32  `json:"nbits"`
	Exponent     uint8   `json:"exponent"`
	Mantissa     string  `json:"mantissa"`
}

type decodeSection struct {
	BitsHex       string  `json:"nbits_hex"`
	Bits          uint32  `json:"nbits"`
	Exponent      uint8   `json:"exponent"`
	Mantissa      string  `json:"mantissa"`
	Difficulty    float64 `json:"difficulty"`
	DifficultyHex string  `json:"difficulty_hex"`
	DifficultySI  string  `json:"difficulty_si"`
}

type targetSection struct {
	Target              string `json:"target"`
	CanonicalBits       string `json:"canonical_nbits"`
	Canonical           bool   `json:"canonical"`
	Work                string `json:"work"`
	Network             string `json:"network"`
	PowLimitBits        string `json:"pow_limit_nbits"`
	BelowNetworkMinimum bool   `json:"below_network_minimum"`
}

type blockTimeSection struct {
	Hashrate float64 `json:"hashrate"`
	Seconds  float64 `json:"seconds"`
	Human    string  `json:"human"`
}

type conversionReport struct {
	Encode    *encodeSection    `json:"encode,omitempty"`
	Decode    decodeSection     `json:"decode"`
	Target    *targetSection    `json:"target,omitempty"`
	BlockTime *blockTimeSection `json:"expected_block_time,omitempty"`
}

// buildReport runs the conversions requested by req. When no nBits are
// given, the nBits encoded from the difficulty are decoded.
func buildReport(req conversionRequest, cfg Config, params *chaincfg.Params) (*conversionReport, error) {
	if strings.TrimSpace(req.Difficulty) == "" && strings.TrimSpace(req.Bits) == "" {
		return nil, newConversionError("difficulty", "", errInvalidArgument, "missing value")
	}

	report := &conversionReport{}
	bitsInput := req.Bits
	if strings.TrimSpace(req.Difficulty) != "" {
		difficulty, err := parseDifficulty(req.Difficulty)
		if err != nil {
			return nil, err
		}
		enc, err := difficultyToNBits(difficulty)
		if err != nil {
			return nil, err
		}
		report.Encode = &encodeSection{
			Difficulty:   enc.Difficulty,
			DifficultySI: siDifficulty(enc.Difficulty),
			BitsHex:      enc.Hex,
			Bits:         enc.Bits,
			Exponent:     enc.Exponent,
			Mantissa:     fmt.Sprintf("%06x", enc.Mantissa),
		}
		if strings.TrimSpace(bitsInput) == "" {
			bitsInput = enc.Hex
		}
	}

	dec, err := nBitsToDifficulty(bitsInput)
	if err != nil {
		return nil, err
	}
	report.Decode = decodeSection{
		BitsHex:       fmt.Sprintf("%08x", dec.Bits),
		Bits:          dec.Bits,
		Exponent:      dec.Exponent,
		Mantissa:      fmt.Sprintf("%06x", dec.Mantissa),
		Difficulty:    dec.Difficulty,
		DifficultyHex: dec.DifficultyHex,
		DifficultySI:  siDifficulty(dec.Difficulty),
	}

	target, err := targetFromBits(dec.Bits)
	switch {
	case err == nil:
		canonical := canonicalBits(target)
		h := targetHash(target)
		report.Target = &targetSection{
			Target:        h.String(),
			CanonicalBits: fmt.Sprintf("%08x", canonical),
			Canonical:     canonical == dec.Bits,
			Work:          workForBits(dec.Bits).String(),
		}
		if params != nil {
			report.Target.Network = params.Name
			report.Target.PowLimitBits = fmt.Sprintf("%08x", params.PowLimitBits)
			report.Target.BelowNetworkMinimum = belowNetworkMinimum(target, params)
		}
	case errors.Is(err, errInvalidEncoding):
		// The difficulty is still well defined; only the expansion is skipped.
		logger.Warn("target expansion skipped", "component", "report", "bits", report.Decode.BitsHex, "error", err)
	default:
		return nil, err
	}

	if d := expectedBlockTime(dec.Difficulty, cfg.Hashrate); d > 0 {
		report.BlockTime = &blockTimeSection{
			Hashrate: cfg.Hashrate,
			Seconds:  d.Seconds(),
			Human:    humanBlockTime(d),
		}
	}
	return report, nil
}

// siMaxValue is where humanize runs out of SI prefixes (Q, 1e30, covers up
// to 1e33).
const siMaxValue = 1e33

// siDifficulty renders v with an SI suffix. Values past the largest prefix
// fall back to plain float formatting.
func siDifficulty(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= siMaxValue {
		return formatFloat(v)
	}
	return strings.TrimSpace(humanize.SIWithDigits(v, 2, ""))
}

func humanBlockTime(d time.Duration) string {
	if d < time.Second {
		return "less than a second"
	}
	return durafmt.Parse(d).LimitFirstN(2).String()
}
