// core/kmer/extract_test.go
package kmer

import (
	"errors"
	"testing"
)

func collect(t *testing.T, seq string, k int) ([]Code, ScanStats) {
	t.Helper()
	var out []Code
	st, err := Scan([]byte(seq), k, func(c Code) error {
		out = append(out, c)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan(%q, %d): %v", seq, k, err)
	}
	return out, st
}

func mustCanonical(t *testing.T, s string) Code {
	t.Helper()
	c, err := Encode([]byte(s), len(s))
	if err != nil {
		t.Fatal(err)
	}
	return Canonical(c, len(s))
}

func TestScanBasicWindows(t *testing.T) {
	got, st := collect(t, "ACGTACGT", 4)
	want := []Code{
		mustCanonical(t, "ACGT"),
		mustCanonical(t, "CGTA"),
		mustCanonical(t, "GTAC"),
		mustCanonical(t, "TACG"),
		mustCanonical(t, "ACGT"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d windows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("window %d = %s, want %s", i, Decode(got[i], 4), Decode(want[i], 4))
		}
	}
	if st.Windows != 5 || st.Skipped != 0 {
		t.Errorf("stats = %+v, want 5 windows, 0 skipped", st)
	}
}

func TestScanWindowArithmetic(t *testing.T) {
	cases := []struct {
		seq     string
		k       int
		windows int
		skipped int
	}{
		{"ACGTACGT", 4, 5, 0},
		{"ACGT", 4, 1, 0},
		{"ACG", 4, 0, 0},       // shorter than k
		{"", 4, 0, 0},           // empty
		{"ACGNACGT", 4, 1, 4},   // N kills every window touching offset 3
		{"NNNNNNNN", 4, 0, 5},   // all ambiguous
		{"ACGTNNACGT", 4, 2, 5}, // run of Ns suppresses consecutive windows
		{"acgtacgt", 4, 5, 0},   // lower case accepted
	}
	for _, tc := range cases {
		got, st := collect(t, tc.seq, tc.k)
		if len(got) != tc.windows || st.Windows != tc.windows {
			t.Errorf("Scan(%q): %d windows, want %d", tc.seq, len(got), tc.windows)
		}
		if st.Skipped != tc.skipped {
			t.Errorf("Scan(%q): %d skipped, want %d", tc.seq, st.Skipped, tc.skipped)
		}
		if n := len(tc.seq) - tc.k + 1; n > 0 && st.Windows+st.Skipped != n {
			t.Errorf("Scan(%q): windows+skipped = %d, want %d", tc.seq, st.Windows+st.Skipped, n)
		}
	}
}

func TestScanInvalidK(t *testing.T) {
	for _, k := range []int{0, 33} {
		if _, err := Scan([]byte("ACGT"), k, func(Code) error { return nil }); !errors.Is(err, ErrInvalidK) {
			t.Errorf("Scan with k=%d: err = %v, want ErrInvalidK", k, err)
		}
	}
}

func TestScanCallbackErrorStops(t *testing.T) {
	sentinel := errors.New("stop")
	n := 0
	_, err := Scan([]byte("ACGTACGT"), 4, func(Code) error {
		n++
		if n == 2 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if n != 2 {
		t.Fatalf("callback ran %d times, want 2", n)
	}
}

// Scanning the same sequence twice yields identical output.
func TestScanRestartable(t *testing.T) {
	a, _ := collect(t, "GATTACAGATTACA", 5)
	b, _ := collect(t, "GATTACAGATTACA", 5)
	if len(a) != len(b) {
		t.Fatal("restarted scan emitted different window count")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("restarted scan diverged at window %d", i)
		}
	}
}

func TestScanMaxK(t *testing.T) {
	seq := make([]byte, 40)
	for i := range seq {
		seq[i] = "ACGT"[i%4]
	}
	got, st := collect(t, string(seq), 32)
	if want := 40 - 32 + 1; len(got) != want || st.Windows != want {
		t.Fatalf("k=32 scan: %d windows, want %d", len(got), want)
	}
}

// Stats must describe the processed prefix even when the callback
// stops the scan.
func TestScanStatsOnCallbackError(t *testing.T) {
	boom := errors.New("boom")
	st, err := Scan([]byte("ACGNACGT"), 4, func(Code) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	// The first valid window (ACGT at the tail) is reached after four
	// windows were suppressed by the N.
	if st.Windows != 1 || st.Skipped != 4 {
		t.Fatalf("stats after early stop: %+v, want Windows=1 Skipped=4", st)
	}
}
