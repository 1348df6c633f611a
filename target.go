package main

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const compactSignBit = 0x00800000

// hashesPerDifficulty is the expected number of hashes per unit of
// difficulty (2^32).
const hashesPerDifficulty = 4294967296.0

// targetFromBits expands compact bits into the full 256-bit target. Bits
// that would produce a negative, zero or oversized target are rejected.
func targetFromBits(bits uint32) (*big.Int, error) {
	if bits&compactSignBit != 0 {
		return nil, newConversionError("nBits", fmt.Sprintf("%08x", bits), errInvalidEncoding, "compact sign bit set, target would be negative")
	}
	target := blockchain.CompactToBig(bits)
	if target.Sign() <= 0 {
		return nil, newConversionError("nBits", fmt.Sprintf("%08x", bits), errInvalidEncoding, "target expands to zero")
	}
	if target.BitLen() > 256 {
		return nil, newConversionError("nBits", fmt.Sprintf("%08x", bits), errInvalidEncoding, "target exceeds 256 bits")
	}
	return target, nil
}

// targetHash stores target little-endian so that String() prints the usual
// big-endian 64 hex digit form.
func targetHash(target *big.Int) chainhash.Hash {
	var h chainhash.Hash
	be := target.FillBytes(make([]byte, chainhash.HashSize))
	for i := range be {
		h[i] = be[len(be)-1-i]
	}
	return h
}

// canonicalBits re-encodes target the way a node would write it into a
// header, normalizing the mantissa.
func canonicalBits(target *big.Int) uint32 {
	return blockchain.BigToCompact(target)
}

func workForBits(bits uint32) *big.Int {
	return blockchain.CalcWork(bits)
}

// belowNetworkMinimum reports whether target is easier than the network's
// proof-of-work limit allows.
func belowNetworkMinimum(target *big.Int, params *chaincfg.Params) bool {
	if params == nil || params.PowLimit == nil {
		return false
	}
	return target.Cmp(params.PowLimit) > 0
}

// expectedBlockTime estimates the mean time to find a block at difficulty
// with the given hashrate in H/s. A non-positive hashrate yields zero.
func expectedBlockTime(difficulty, hashrate float64) time.Duration {
	if !(hashrate > 0) || !(difficulty > 0) || math.IsInf(hashrate, 0) {
		return 0
	}
	secs := difficulty * hashesPerDifficulty / hashrate
	if secs >= float64(math.MaxInt64)/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}
