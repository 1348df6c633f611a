package main

import (
	"errors"
	"math"
	"testing"
)

func TestDifficultyToNBitsKnownVectors(t *testing.T) {
	tests := []struct {
		difficulty float64
		exponent   uint8
		mantissa   uint32
		hex        string
	}{
		{difficulty: 1, exponent: 0x1d, mantissa: 0x00ffff, hex: "1d00ffff"},
		{difficulty: 0.5, exponent: 0x1d, mantissa: 0x01fffe, hex: "1d01fffe"},
		{difficulty: 256, exponent: 0x1c, mantissa: 0x00ffff, hex: "1c00ffff"},
		{difficulty: 32650.89, exponent: 0x1b, mantissa: 0x0201d4, hex: "1b0201d4"},
		{difficulty: 16307.420938523983, exponent: 0x1b, mantissa: 0x0404cb, hex: "1b0404cb"},
		{difficulty: 1e6, exponent: 0x1a, mantissa: 0x10c6e6, hex: "1a10c6e6"},
		// Exponents below 0x10 are written without padding.
		{difficulty: math.Ldexp(1, 112), exponent: 0x0f, mantissa: 0x00ffff, hex: "f00ffff"},
	}
	for _, tc := range tests {
		enc, err := difficultyToNBits(tc.difficulty)
		if err != nil {
			t.Fatalf("difficultyToNBits(%v) error: %v", tc.difficulty, err)
		}
		if enc.Exponent != tc.exponent {
			t.Errorf("difficultyToNBits(%v) exponent = %#x, want %#x", tc.difficulty, enc.Exponent, tc.exponent)
		}
		if enc.Mantissa != tc.mantissa {
			t.Errorf("difficultyToNBits(%v) mantissa = %#06x, want %#06x", tc.difficulty, enc.Mantissa, tc.mantissa)
		}
		if enc.Hex != tc.hex {
			t.Errorf("difficultyToNBits(%v) hex = %q, want %q", tc.difficulty, enc.Hex, tc.hex)
		}
		wantBits := uint32(tc.exponent)<<24 | tc.mantissa
		if enc.Bits != wantBits {
			t.Errorf("difficultyToNBits(%v) bits = %#08x, want %#08x", tc.difficulty, enc.Bits, wantBits)
		}
	}
}

func TestNBitsToDifficultyKnownVectors(t *testing.T) {
	tests := []struct {
		bits       string
		difficulty float64
		hex        string
	}{
		{bits: "1d00ffff", difficulty: 1, hex: "1"},
		{bits: "0x1d00ffff", difficulty: 1, hex: "1"},
		{bits: " 1D00FFFF ", difficulty: 1, hex: "1"},
		{bits: "1c00ffff", difficulty: 256, hex: "100"},
		{bits: "1b0404cb", difficulty: 16307.420938523983, hex: "3fb3"},
		{bits: "1e00ffff", difficulty: 1.0 / 256, hex: "0"},
	}
	for _, tc := range tests {
		dec, err := nBitsToDifficulty(tc.bits)
		if err != nil {
			t.Fatalf("nBitsToDifficulty(%q) error: %v", tc.bits, err)
		}
		if relativeError(dec.Difficulty, tc.difficulty) > 1e-12 {
			t.Errorf("nBitsToDifficulty(%q) = %v, want %v", tc.bits, dec.Difficulty, tc.difficulty)
		}
		if dec.DifficultyHex != tc.hex {
			t.Errorf("nBitsToDifficulty(%q) hex = %q, want %q", tc.bits, dec.DifficultyHex, tc.hex)
		}
	}
}

func TestNBitsToDifficultyLargeDifficultyHex(t *testing.T) {
	// exponent 0 and mantissa 1 gives 65535 * 256^29, far past uint64.
	dec, err := nBitsToDifficulty("00000001")
	if err != nil {
		t.Fatalf("nBitsToDifficulty error: %v", err)
	}
	if len(dec.DifficultyHex) <= 16 {
		t.Fatalf("expected a hex string wider than 64 bits, got %q", dec.DifficultyHex)
	}
	if dec.DifficultyHex[:4] != "ffff" {
		t.Fatalf("expected hex to start with ffff, got %q", dec.DifficultyHex)
	}
}

func TestRoundTripDifficultyOne(t *testing.T) {
	enc, err := difficultyToNBits(1.0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := nBitsToDifficulty(enc.Hex)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !almostEqualFloat64(dec.Difficulty, 1.0, 1e-4) {
		t.Fatalf("round trip of 1.0 gave %v", dec.Difficulty)
	}
}

func TestRoundTripRelativeError(t *testing.T) {
	diffs := []float64{0.004, 0.01, 0.5, 1, 2, 1000, 32650.89, 1e6, 1e12, 5.5e15}
	for _, diff := range diffs {
		enc, err := difficultyToNBits(diff)
		if err != nil {
			t.Fatalf("difficultyToNBits(%v) error: %v", diff, err)
		}
		dec, err := nBitsToDifficulty(enc.Hex)
		if err != nil {
			t.Fatalf("nBitsToDifficulty(%q) error: %v", enc.Hex, err)
		}
		if rel := relativeError(dec.Difficulty, diff); rel > 1e-4 {
			t.Fatalf("round trip %v -> %s -> %v, relErr %g", diff, enc.Hex, dec.Difficulty, rel)
		}
	}
}

// TestDifficultyToNBitsExponentMonotonic checks that a higher difficulty
// never yields a larger exponent byte.
func TestDifficultyToNBitsExponentMonotonic(t *testing.T) {
	diffs := []float64{0.01, 0.5, 1, 1.5, 255, 256, 257, 65536, 1e6, 1e9, 1e12, 1e18, 1e30}
	prev := uint8(math.MaxUint8)
	for _, diff := range diffs {
		enc, err := difficultyToNBits(diff)
		if err != nil {
			t.Fatalf("difficultyToNBits(%v) error: %v", diff, err)
		}
		if enc.Exponent > prev {
			t.Fatalf("exponent increased at difficulty %v: %#x > %#x", diff, enc.Exponent, prev)
		}
		prev = enc.Exponent
	}
}

func TestDifficultyToNBitsDeterministic(t *testing.T) {
	for _, diff := range []float64{0.75, 1, 32650.89, 1e9} {
		a, errA := difficultyToNBits(diff)
		b, errB := difficultyToNBits(diff)
		if errA != nil || errB != nil {
			t.Fatalf("difficultyToNBits(%v) errors: %v, %v", diff, errA, errB)
		}
		if a.Hex != b.Hex {
			t.Fatalf("difficultyToNBits(%v) not deterministic: %q vs %q", diff, a.Hex, b.Hex)
		}
	}
}

func TestNBitsToDifficultyZeroMantissa(t *testing.T) {
	for _, bits := range []string{"1d000000", "00000000", "ff000000"} {
		_, err := nBitsToDifficulty(bits)
		if !errors.Is(err, errInvalidEncoding) {
			t.Fatalf("nBitsToDifficulty(%q) err = %v, want invalid encoding", bits, err)
		}
	}
}

func TestNBitsToDifficultyInvalidArgument(t *testing.T) {
	for _, bits := range []string{"", "   ", "0x", "zz", "1d00fffg", "1ffffffff", "-1"} {
		_, err := nBitsToDifficulty(bits)
		if !errors.Is(err, errInvalidArgument) {
			t.Fatalf("nBitsToDifficulty(%q) err = %v, want invalid argument", bits, err)
		}
	}
}

func TestParseDifficultyInvalidArgument(t *testing.T) {
	for _, s := range []string{"", "abc", "1.0x", "1,5", "1e400"} {
		_, err := parseDifficulty(s)
		if !errors.Is(err, errInvalidArgument) {
			t.Fatalf("parseDifficulty(%q) err = %v, want invalid argument", s, err)
		}
		var convErr *conversionError
		if !errors.As(err, &convErr) || convErr.Field != "difficulty" {
			t.Fatalf("parseDifficulty(%q) err = %v, want conversionError for difficulty", s, err)
		}
	}
}

func TestParseDifficultyRejectsNonFinite(t *testing.T) {
	for _, s := range []string{"nan", "NaN", "inf", "+Inf", "-inf", "Infinity"} {
		_, err := parseDifficulty(s)
		if !errors.Is(err, errInvalidArgument) {
			t.Fatalf("parseDifficulty(%q) err = %v, want invalid argument", s, err)
		}
	}
}

func TestParseDifficultyAccepted(t *testing.T) {
	tests := map[string]float64{
		"1.0":       1,
		" 32650.89": 32650.89,
		"1e6":       1e6,
		"0.5":       0.5,
	}
	for s, want := range tests {
		got, err := parseDifficulty(s)
		if err != nil {
			t.Fatalf("parseDifficulty(%q) error: %v", s, err)
		}
		if got != want {
			t.Fatalf("parseDifficulty(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestDifficultyToNBitsDegenerate(t *testing.T) {
	cases := []float64{
		0,
		-1,
		math.NaN(),
		math.Inf(1),
		math.Inf(-1),
		// mantissa no longer fits in 24 bits
		0.003,
		math.SmallestNonzeroFloat64,
		// exponent floor reached, mantissa truncates to zero
		1e300,
	}
	for _, diff := range cases {
		_, err := difficultyToNBits(diff)
		if !errors.Is(err, errDegenerateInput) {
			t.Fatalf("difficultyToNBits(%v) err = %v, want degenerate input", diff, err)
		}
	}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{newConversionError("difficulty", "x", errInvalidArgument, "bad"), exitInvalidArgument},
		{newConversionError("nBits", "1d000000", errInvalidEncoding, "bad"), exitInvalidEncoding},
		{newConversionError("difficulty", "0", errDegenerateInput, "bad"), exitDegenerateInput},
		{errors.New("boom"), exitFailure},
	}
	for _, tc := range tests {
		if got := exitCodeForError(tc.err); got != tc.want {
			t.Fatalf("exitCodeForError(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
