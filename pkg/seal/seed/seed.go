// Package seed derives the deterministic digest that roots every random
// process in seal generation.
//
// The contract is permanent: identical (token, version) pairs must produce
// identical seeds forever, across releases and platforms. Nothing in this
// package may depend on time, ordering, or process state.
package seed

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
)

// Size is the seed length in bytes (SHA-256 output).
const Size = sha256.Size

// separator sits between token and version in the hash input so that
// ("ab", "c") and ("a", "bc") can never collide. Unit separator is not a
// legal byte in either field (both reject control characters).
const separator = "\x1f"

// Seed is a fixed-length digest derived from (token, version).
type Seed [Size]byte

// Derive collapses a token and seal version into a Seed.
//
// The token must be non-empty; authorization and existence checks are the
// caller's responsibility.
func Derive(token, version string) (Seed, error) {
	if err := errors.ValidateToken(token); err != nil {
		return Seed{}, err
	}
	if err := errors.ValidateVersion(version); err != nil {
		return Seed{}, err
	}

	h := sha256.New()
	h.Write([]byte(token))
	h.Write([]byte(separator))
	h.Write([]byte(version))

	var s Seed
	copy(s[:], h.Sum(nil))
	return s, nil
}

// Stream derives a domain-separated sub-seed for one named random concern
// (e.g. "spores", "noise"). Separate streams keep the texture generator's
// sampling independent from any other randomized stage, so adding a new
// consumer never shifts existing output.
func (s Seed) Stream(label string) Seed {
	h := sha256.New()
	h.Write(s[:])
	h.Write([]byte(separator))
	h.Write([]byte(label))

	var out Seed
	copy(out[:], h.Sum(nil))
	return out
}

// Uint64Pair returns the first 16 bytes of the seed as two big-endian
// uint64s, suitable for seeding a PCG generator.
func (s Seed) Uint64Pair() (uint64, uint64) {
	var hi, lo uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(s[i])
		lo = lo<<8 | uint64(s[i+8])
	}
	return hi, lo
}

// Hex returns the full seed as a hex string.
func (s Seed) Hex() string {
	return hex.EncodeToString(s[:])
}

// Prefix returns the first n bytes of the seed as hex, used for the audit
// metadata block. The prefix is non-reversible and never used for generation.
func (s Seed) Prefix(n int) string {
	if n > Size {
		n = Size
	}
	return hex.EncodeToString(s[:n])
}
