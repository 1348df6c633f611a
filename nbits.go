package main

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	// minDifficulty is the mantissa of the difficulty-1 target (0x0000ffff).
	minDifficulty = float64(0x0000ffff)
	// baseExponent is the exponent byte paired with minDifficulty at
	// difficulty 1, i.e. nBits 0x1d00ffff.
	baseExponent = 29
	// minEncodeExponent is the lowest exponent the encoder will step down to.
	minEncodeExponent = 1

	mantissaMask = 0x00ffffff
	byteScale    = 256.0
)

// nBitsEncoding is the result of encoding a difficulty into compact form.
type nBitsEncoding struct {
	Difficulty float64
	Exponent   uint8
	Mantissa   uint32
	// Hex is the exponent in natural hex followed by the six-digit mantissa.
	// Exponents below 0x10 therefore produce a seven-digit string.
	Hex  string
	Bits uint32
}

// difficultyDecoding is the result of decoding compact nBits.
type difficultyDecoding struct {
	Bits       uint32
	Exponent   uint8
	Mantissa   uint32
	Difficulty float64
	// DifficultyHex is the truncated integer part of Difficulty in hex.
	DifficultyHex string
}

// parseDifficulty validates a decimal difficulty argument.
func parseDifficulty(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, newConversionError("difficulty", s, errInvalidArgument, "missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, newConversionError("difficulty", s, errInvalidArgument, "not a decimal number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newConversionError("difficulty", s, errInvalidArgument, "not a finite decimal number")
	}
	return v, nil
}

// parseNBits validates an nBits hex argument. A 0x prefix is accepted.
func parseNBits(s string) (uint32, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if s == "" {
		return 0, newConversionError("nBits", raw, errInvalidArgument, "missing value")
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, newConversionError("nBits", raw, errInvalidArgument, "not a 32-bit hex number")
	}
	return uint32(n), nil
}

// difficultyToNBits encodes a positive difficulty into compact nBits.
//
// The exponent is found by repeatedly dividing the difficulty by 256 while it
// stays above 1. The input difficulty is then scaled down to the same
// exponent bucket and the mantissa taken against that scaled value.
func difficultyToNBits(difficulty float64) (nBitsEncoding, error) {
	if math.IsNaN(difficulty) || math.IsInf(difficulty, 0) || difficulty <= 0 {
		return nBitsEncoding{}, newConversionError("difficulty", formatFloat(difficulty), errDegenerateInput, "must be a positive finite number")
	}

	exponent := baseExponent
	mantissaDiv := difficulty
	for exponent > minEncodeExponent && mantissaDiv > 1 {
		mantissaDiv /= byteScale
		exponent--
	}

	scaled := difficulty
	for shift := exponent; shift < baseExponent; shift++ {
		scaled /= byteScale
	}

	m := math.Trunc(minDifficulty / scaled)
	if m > mantissaMask {
		return nBitsEncoding{}, newConversionError("difficulty", formatFloat(difficulty), errDegenerateInput,
			fmt.Sprintf("mantissa %.0f does not fit in 24 bits", m))
	}
	if m < 1 {
		return nBitsEncoding{}, newConversionError("difficulty", formatFloat(difficulty), errDegenerateInput,
			"too large to encode, mantissa truncates to zero")
	}
	mantissa := uint32(m)

	logger.Debug("difficulty encoded", "component", "codec", "difficulty", difficulty,
		"exponent", exponent, "scaled", scaled, "mantissa", mantissa)

	return nBitsEncoding{
		Difficulty: difficulty,
		Exponent:   uint8(exponent),
		Mantissa:   mantissa,
		Hex:        strconv.FormatUint(uint64(exponent), 16) + fmt.Sprintf("%06x", mantissa),
		Bits:       uint32(exponent)<<24 | mantissa,
	}, nil
}

// nBitsToDifficulty decodes an nBits hex string into a difficulty.
func nBitsToDifficulty(nBitsHex string) (difficultyDecoding, error) {
	bits, err := parseNBits(nBitsHex)
	if err != nil {
		return difficultyDecoding{}, err
	}
	return decodeBits(bits)
}

func decodeBits(bits uint32) (difficultyDecoding, error) {
	exponent := int((bits >> 24) & 0xff)
	mantissa := bits & mantissaMask
	if mantissa == 0 {
		return difficultyDecoding{}, newConversionError("nBits", fmt.Sprintf("%08x", bits), errInvalidEncoding, "mantissa is zero")
	}

	difficulty := minDifficulty / float64(mantissa)
	for shift := exponent; shift < baseExponent; shift++ {
		difficulty *= byteScale
	}
	for shift := exponent; shift > baseExponent; shift-- {
		difficulty /= byteScale
	}

	logger.Debug("nBits decoded", "component", "codec", "bits", fmt.Sprintf("%08x", bits),
		"exponent", exponent, "mantissa", mantissa, "difficulty", difficulty)

	return difficultyDecoding{
		Bits:          bits,
		Exponent:      uint8(exponent),
		Mantissa:      mantissa,
		Difficulty:    difficulty,
		DifficultyHex: truncatedHex(difficulty),
	}, nil
}

// truncatedHex renders the integer part of a finite non-negative value in
// hex without overflowing for values past 2^64.
func truncatedHex(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	n, _ := big.NewFloat(v).Int(nil)
	return n.Text(16)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
