// internal/pipeline/pipeline_test.go
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"kprof/core/counter"
	"kprof/core/kmer"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func writeFasta(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCountFiles(t *testing.T) {
	f1 := writeFasta(t, "a.fa", ">s1\nACGTACGT\n")
	f2 := writeFasta(t, "b.fa", ">s2\nGGGGCCCC\n>s3\nTTTTACGT\n")

	var seen []string
	tbl, stats, err := CountFiles(context.Background(), testLogger(), Options{K: 4, Threads: 2},
		[]string{f1, f2}, func(path string) { seen = append(seen, path) })
	if err != nil {
		t.Fatal(err)
	}
	if stats.Records != 3 {
		t.Errorf("records = %d, want 3", stats.Records)
	}
	if len(seen) != 2 {
		t.Errorf("onFile called %d times, want 2", len(seen))
	}

	// Equivalent sequential count.
	want, _ := counter.NewTable(4)
	for _, seq := range []string{"ACGTACGT", "GGGGCCCC", "TTTTACGT"} {
		if _, err := kmer.Scan([]byte(seq), 4, func(c kmer.Code) error { want.Add(c, 1); return nil }); err != nil {
			t.Fatal(err)
		}
	}
	if tbl.Total() != want.Total() || tbl.Len() != want.Len() {
		t.Fatalf("pipeline count %d/%d != sequential %d/%d", tbl.Total(), tbl.Len(), want.Total(), want.Len())
	}
}

func TestCountFilesMissingFileWarns(t *testing.T) {
	f1 := writeFasta(t, "a.fa", ">s1\nACGTACGT\n")
	tbl, stats, err := CountFiles(context.Background(), testLogger(), Options{K: 4, Threads: 1},
		[]string{"/no/such/file.fa", f1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Warnings) == 0 {
		t.Error("expected a warning for the missing file")
	}
	if tbl.Total() != 5 {
		t.Errorf("good file not counted: total = %d", tbl.Total())
	}
}

func TestCountFilesMissingFileStrict(t *testing.T) {
	_, _, err := CountFiles(context.Background(), testLogger(), Options{K: 4, Threads: 1, Strict: true},
		[]string{"/no/such/file.fa"}, nil)
	if err == nil {
		t.Fatal("strict mode should fail on an unreadable file")
	}
}

func TestCountFilesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f1 := writeFasta(t, "a.fa", ">s1\nACGTACGT\n")
	_, _, err := CountFiles(ctx, testLogger(), Options{K: 4, Threads: 1}, []string{f1}, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestCountFilesInvalidK(t *testing.T) {
	f1 := writeFasta(t, "a.fa", ">s1\nACGTACGT\n")
	_, _, err := CountFiles(context.Background(), testLogger(), Options{K: 99, Threads: 1}, []string{f1}, nil)
	if err == nil {
		t.Fatal("expected configuration error")
	}
}
