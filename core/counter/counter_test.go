// core/counter/counter_test.go
package counter

import (
	"context"
	"fmt"
	"testing"

	"kprof/core/kmer"
)

func randomishSeq(n int) []byte {
	seq := make([]byte, n)
	state := uint64(0x9e3779b97f4a7c15)
	for i := range seq {
		state = state*6364136223846793005 + 1442695040888963407
		seq[i] = "ACGT"[state>>62]
	}
	return seq
}

// Final counts must equal a hypothetical sequential count no matter how
// many workers share the load.
func TestCountMatchesSequential(t *testing.T) {
	const k = 5
	var recs []Record
	for i := 0; i < 40; i++ {
		recs = append(recs, Record{ID: fmt.Sprintf("r%d", i), Seq: randomishSeq(200 + i)})
	}

	seq, _ := NewTable(k)
	for _, r := range recs {
		if _, err := kmer.Scan(r.Seq, k, func(c kmer.Code) error { seq.Add(c, 1); return nil }); err != nil {
			t.Fatal(err)
		}
	}

	for _, workers := range []int{1, 2, 4, 8} {
		got, stats, err := CountAll(context.Background(), Options{K: k, Workers: workers}, recs)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if got.Total() != seq.Total() || got.Len() != seq.Len() {
			t.Fatalf("workers=%d: total/keys %d/%d, want %d/%d",
				workers, got.Total(), got.Len(), seq.Total(), seq.Len())
		}
		seq.Range(func(c kmer.Code, n uint64) {
			if got.Get(c) != n {
				t.Errorf("workers=%d code %d: %d, want %d", workers, c, got.Get(c), n)
			}
		})
		if stats.Records != len(recs) {
			t.Errorf("workers=%d: records = %d, want %d", workers, stats.Records, len(recs))
		}
	}
}

func TestCountEmptyRecordWarns(t *testing.T) {
	recs := []Record{
		{ID: "good", Seq: []byte("ACGTACGT")},
		{ID: "bad", Seq: nil},
	}
	tbl, stats, err := CountAll(context.Background(), Options{K: 4, Workers: 2}, recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Warnings) != 1 || stats.Warnings[0].RecordID != "bad" {
		t.Fatalf("warnings = %+v, want one for %q", stats.Warnings, "bad")
	}
	if tbl.Total() != 5 {
		t.Fatalf("good record not counted: total = %d", tbl.Total())
	}
}

func TestCountStrictAborts(t *testing.T) {
	recs := []Record{
		{ID: "good", Seq: []byte("ACGTACGT")},
		{ID: "bad", Seq: nil},
	}
	_, _, err := CountAll(context.Background(), Options{K: 4, Workers: 1, Strict: true}, recs)
	if err == nil {
		t.Fatal("strict mode should abort on malformed record")
	}
}

func TestCountInvalidK(t *testing.T) {
	_, _, err := CountAll(context.Background(), Options{K: 0}, nil)
	if err == nil {
		t.Fatal("expected configuration error for k=0")
	}
}

func TestCountCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records := make(chan Record) // never closed; workers must exit via ctx
	_, _, err := Count(ctx, Options{K: 4, Workers: 2}, records)
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
