// core/kmer/extract.go
package kmer

// ScanStats summarizes one extraction pass over a single sequence.
type ScanStats struct {
	Windows int // canonical codes emitted
	Skipped int // windows suppressed by ambiguous bases
}

// Scan slides a k-wide window across seq left to right and calls fn
// with the canonical code of every valid window. Windows overlapping a
// base outside ACGT are skipped; a run of ambiguous bases suppresses
// up to k consecutive windows each. The rolling state is O(1), so seq
// may be a view into a larger stream. Scan keeps no state between
// calls and is safe to run concurrently over independent sequences.
//
// A non-nil error from fn stops the scan and is returned as-is.
func Scan(seq []byte, k int, fn func(Code) error) (ScanStats, error) {
	var st ScanStats
	if err := ValidateK(k); err != nil {
		return st, err
	}
	if len(seq) < k {
		return st, nil
	}

	// For k=32 the shift count is 64, which yields 0-1 = all ones.
	mask := Code(1)<<(2*uint(k)) - 1
	shift := 2 * uint(k-1)

	// Skipped is tallied per window position so the stats stay
	// consistent even when fn stops the scan early.
	var fwd, rc Code
	valid := 0 // unambiguous bases accumulated since the last reset
	for i, b := range seq {
		bits := baseBits[b]
		if bits == invalidBase {
			fwd, rc, valid = 0, 0, 0
			if i >= k-1 {
				st.Skipped++
			}
			continue
		}
		fwd = (fwd<<2 | Code(bits)) & mask
		rc = rc>>2 | (Code(bits)^3)<<shift
		if valid < k-1 {
			valid++
			if i >= k-1 {
				st.Skipped++
			}
			continue
		}
		canon := fwd
		if rc < canon {
			canon = rc
		}
		st.Windows++
		if err := fn(canon); err != nil {
			return st, err
		}
	}
	return st, nil
}
