// core/kmer/encode.go
package kmer

import (
	"errors"
	"fmt"
)

// MaxK is the largest k a Code can hold at 2 bits per base.
const MaxK = 32

// Code is a 2-bit-per-base packing of a length-k nucleotide window.
// A=00 C=01 G=10 T=11; the first base occupies the highest bit pair.
type Code uint64

var (
	// ErrInvalidK marks a k outside [1, MaxK]; a configuration error,
	// never silent truncation.
	ErrInvalidK = errors.New("k-mer size out of range")

	// ErrAmbiguousBase marks a window containing a base outside ACGT
	// (case-insensitive). Windows hitting it are skipped, not fatal.
	ErrAmbiguousBase = errors.New("ambiguous base")
)

const invalidBase = 0xff

var baseBits [256]uint8

func init() {
	for i := range baseBits {
		baseBits[i] = invalidBase
	}
	baseBits['A'], baseBits['a'] = 0, 0
	baseBits['C'], baseBits['c'] = 1, 1
	baseBits['G'], baseBits['g'] = 2, 2
	baseBits['T'], baseBits['t'] = 3, 3
}

// ValidateK rejects k outside the representable range.
func ValidateK(k int) error {
	if k < 1 || k > MaxK {
		return fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidK, k, MaxK)
	}
	return nil
}

// Encode packs a length-k window into a Code. Lower-case bases are
// accepted; anything outside ACGT fails with ErrAmbiguousBase.
func Encode(window []byte, k int) (Code, error) {
	if err := ValidateK(k); err != nil {
		return 0, err
	}
	if len(window) != k {
		return 0, fmt.Errorf("window length %d does not match k=%d", len(window), k)
	}
	var c Code
	for i, b := range window {
		bits := baseBits[b]
		if bits == invalidBase {
			return 0, fmt.Errorf("%w %q at offset %d", ErrAmbiguousBase, b, i)
		}
		c = c<<2 | Code(bits)
	}
	return c, nil
}

// RevComp returns the reverse complement of c: each base complemented
// (A<->T, C<->G) and the order reversed. Pure, O(k).
func RevComp(c Code, k int) Code {
	var rc Code
	for i := 0; i < k; i++ {
		rc = rc<<2 | (c&3)^3
		c >>= 2
	}
	return rc
}

// Canonical returns the strand-independent representative: the smaller
// of c and its reverse complement under unsigned ordering. For
// palindromic k-mers the two coincide.
func Canonical(c Code, k int) Code {
	if rc := RevComp(c, k); rc < c {
		return rc
	}
	return c
}

// Decode is the inverse of Encode.
func Decode(c Code, k int) string {
	const bases = "ACGT"
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = bases[c&3]
		c >>= 2
	}
	return string(out)
}
