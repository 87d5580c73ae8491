// core/kmer/encode_test.go
package kmer

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{"A", "ACGT", "TTTT", "GATTACA", "acgtACGT"}
	for _, s := range cases {
		c, err := Encode([]byte(s), len(s))
		if err != nil {
			t.Fatalf("Encode(%q): %v", s, err)
		}
		got := Decode(c, len(s))
		want := toUpper(s)
		if got != want {
			t.Errorf("Decode(Encode(%q)) = %q, want %q", s, got, want)
		}
	}
}

func toUpper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

func TestEncodeAmbiguous(t *testing.T) {
	for _, s := range []string{"ACGN", "NNNN", "AC-T", "ACG "} {
		if _, err := Encode([]byte(s), len(s)); !errors.Is(err, ErrAmbiguousBase) {
			t.Errorf("Encode(%q) error = %v, want ErrAmbiguousBase", s, err)
		}
	}
}

func TestEncodeLengthMismatch(t *testing.T) {
	if _, err := Encode([]byte("ACG"), 4); err == nil {
		t.Fatal("expected error for window/k mismatch")
	}
}

func TestValidateK(t *testing.T) {
	for _, k := range []int{1, 15, 31, 32} {
		if err := ValidateK(k); err != nil {
			t.Errorf("ValidateK(%d) = %v, want nil", k, err)
		}
	}
	for _, k := range []int{0, -1, 33, 64} {
		if err := ValidateK(k); !errors.Is(err, ErrInvalidK) {
			t.Errorf("ValidateK(%d) = %v, want ErrInvalidK", k, err)
		}
	}
}

func TestRevComp(t *testing.T) {
	cases := []struct{ in, want string }{
		{"A", "T"},
		{"ACGT", "ACGT"}, // palindrome
		{"AAAA", "TTTT"},
		{"GATTACA", "TGTAATC"},
	}
	for _, tc := range cases {
		c, err := Encode([]byte(tc.in), len(tc.in))
		if err != nil {
			t.Fatal(err)
		}
		got := Decode(RevComp(c, len(tc.in)), len(tc.in))
		if got != tc.want {
			t.Errorf("RevComp(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRevCompInvolution(t *testing.T) {
	const k = 9
	for _, s := range []string{"GATTACAGA", "CCCCCCCCC", "ACGTACGTA"} {
		c, _ := Encode([]byte(s), k)
		if back := RevComp(RevComp(c, k), k); back != c {
			t.Errorf("RevComp(RevComp(%s)) = %s, want identity", s, Decode(back, k))
		}
	}
}

// canonical(code) == canonical(revcomp(code)) for every code.
func TestCanonicalStrandSymmetry(t *testing.T) {
	const k = 7
	seqs := []string{"GATTACA", "AAAAAAA", "TTTTTTT", "ACGTACG", "CGCGCGC"}
	for _, s := range seqs {
		c, _ := Encode([]byte(s), k)
		rc := RevComp(c, k)
		if Canonical(c, k) != Canonical(rc, k) {
			t.Errorf("canonical of %s differs between strands", s)
		}
	}
	// Exhaustive for small k.
	const k3 = 3
	for c := Code(0); c < 1<<(2*k3); c++ {
		if Canonical(c, k3) != Canonical(RevComp(c, k3), k3) {
			t.Fatalf("canonical asymmetry at code %d", c)
		}
	}
}

func TestCanonicalCollapsesComplementaryHomopolymers(t *testing.T) {
	const k = 4
	a, _ := Encode([]byte("AAAA"), k)
	tt, _ := Encode([]byte("TTTT"), k)
	if Canonical(a, k) != Canonical(tt, k) {
		t.Error("AAAA and TTTT should share one canonical code")
	}
}
