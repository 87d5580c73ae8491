// core/counter/table_test.go
package counter

import (
	"context"
	"math"
	"testing"

	"kprof/core/kmer"
)

func TestTableAddAndGet(t *testing.T) {
	tbl, err := NewTable(4)
	if err != nil {
		t.Fatal(err)
	}
	tbl.Add(7, 1)
	tbl.Add(7, 2)
	tbl.Add(9, 5)
	if got := tbl.Get(7); got != 3 {
		t.Errorf("Get(7) = %d, want 3", got)
	}
	if got := tbl.Get(9); got != 5 {
		t.Errorf("Get(9) = %d, want 5", got)
	}
	if got := tbl.Get(1); got != 0 {
		t.Errorf("Get(absent) = %d, want 0", got)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len = %d, want 2", tbl.Len())
	}
}

func TestTableInvalidK(t *testing.T) {
	if _, err := NewTable(0); err == nil {
		t.Fatal("expected error for k=0")
	}
	if _, err := NewTable(33); err == nil {
		t.Fatal("expected error for k=33")
	}
}

func TestTableSaturation(t *testing.T) {
	tbl, _ := NewTable(4)
	tbl.Add(1, math.MaxUint64-1)
	tbl.Add(1, 5) // would wrap; must clamp
	if got := tbl.Get(1); got != math.MaxUint64 {
		t.Fatalf("saturating add: got %d, want MaxUint64", got)
	}
	if tbl.Saturated() != 1 {
		t.Errorf("Saturated = %d, want 1", tbl.Saturated())
	}
	tbl.Add(1, 1)
	if got := tbl.Get(1); got != math.MaxUint64 {
		t.Fatalf("count wrapped after saturation: %d", got)
	}
}

func TestMergeKMismatch(t *testing.T) {
	a, _ := NewTable(4)
	b, _ := NewTable(5)
	if err := a.Merge(b); err == nil {
		t.Fatal("expected error merging tables of differing k")
	}
}

// Counting two halves separately and merging must equal one pass over
// the whole sequence.
func TestSplitMergeEquivalence(t *testing.T) {
	const k = 4
	seq := []byte("ACGTACGTGGGGTTTTACACGTGTNNACGTACCA")

	whole, _ := NewTable(k)
	if _, err := kmer.Scan(seq, k, func(c kmer.Code) error { whole.Add(c, 1); return nil }); err != nil {
		t.Fatal(err)
	}

	// Split with k-1 overlap so no window is lost at the seam.
	mid := len(seq) / 2
	left, right := seq[:mid+k-1], seq[mid:]
	a, _ := NewTable(k)
	b, _ := NewTable(k)
	if _, err := kmer.Scan(left, k, func(c kmer.Code) error { a.Add(c, 1); return nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := kmer.Scan(right, k, func(c kmer.Code) error { b.Add(c, 1); return nil }); err != nil {
		t.Fatal(err)
	}
	if err := a.Merge(b); err != nil {
		t.Fatal(err)
	}

	if a.Total() != whole.Total() {
		t.Fatalf("merged total %d != sequential total %d", a.Total(), whole.Total())
	}
	if a.Len() != whole.Len() {
		t.Fatalf("merged keys %d != sequential keys %d", a.Len(), whole.Len())
	}
	whole.Range(func(c kmer.Code, n uint64) {
		if a.Get(c) != n {
			t.Errorf("code %s: merged %d, sequential %d", kmer.Decode(c, k), a.Get(c), n)
		}
	})
}

func TestTotalExampleSequence(t *testing.T) {
	// ACGTACGT with k=4 has 5 valid windows.
	tbl, _, err := CountAll(context.Background(), Options{K: 4, Workers: 2}, []Record{{ID: "s", Seq: []byte("ACGTACGT")}})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Total() != 5 {
		t.Fatalf("Total = %d, want 5", tbl.Total())
	}
}
