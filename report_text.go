package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

func renderReport(w io.Writer, report *conversionReport, format string) error {
	if strings.EqualFold(format, outputJSON) {
		return renderJSON(w, report)
	}
	return renderText(w, report)
}

// renderText writes one "name = value" line per computed value, encode
// section first, then the decode section and the target details.
func renderText(w io.Writer, report *conversionReport) error {
	var b strings.Builder
	if enc := report.Encode; enc != nil {
		fmt.Fprintf(&b, "difficulty dec = %s\n", formatFloat(enc.Difficulty))
		fmt.Fprintf(&b, "difficulty si = %s\n", enc.DifficultySI)
		fmt.Fprintf(&b, "nBits hex = %s\n", enc.BitsHex)
		fmt.Fprintf(&b, "nBits dec = %d\n", enc.Bits)
		b.WriteByte('\n')
	}

	dec := report.Decode
	fmt.Fprintf(&b, "nBits = %s\n", dec.BitsHex)
	fmt.Fprintf(&b, "nBits dec = %d\n", dec.Bits)
	fmt.Fprintf(&b, "exponent = 0x%02x\n", dec.Exponent)
	fmt.Fprintf(&b, "mantissa = 0x%s\n", dec.Mantissa)
	fmt.Fprintf(&b, "difficulty hex = %s\n", dec.DifficultyHex)
	fmt.Fprintf(&b, "difficulty dec = %s\n", formatFloat(dec.Difficulty))
	fmt.Fprintf(&b, "difficulty si = %s\n", dec.DifficultySI)

	if t := report.Target; t != nil {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "target = %s\n", t.Target)
		fmt.Fprintf(&b, "canonical nBits = %s\n", t.CanonicalBits)
		fmt.Fprintf(&b, "work = %s\n", commaWork(t.Work))
		if t.Network != "" {
			status := "ok"
			if t.BelowNetworkMinimum {
				status = "below network minimum difficulty"
			}
			fmt.Fprintf(&b, "network = %s (pow limit %s): %s\n", t.Network, t.PowLimitBits, status)
		}
	}
	if bt := report.BlockTime; bt != nil {
		fmt.Fprintf(&b, "expected block time = %s at %sH/s\n", bt.Human, siDifficulty(bt.Hashrate))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func commaWork(s string) string {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return s
	}
	return humanize.BigComma(n)
}

func renderJSON(w io.Writer, report *conversionReport) error {
	data, err := fastJSONMarshalIndent(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
