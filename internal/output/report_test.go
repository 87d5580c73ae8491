// internal/output/report_test.go
package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"kprof/core/similarity"
)

func sampleReport() *Report {
	return &Report{
		Query: QuerySummary{
			Files:       []string{"sample.fq"},
			K:           7,
			Metric:      "cosine",
			Records:     2,
			Windows:     20,
			Skipped:     3,
			UniqueKmers: 10,
			TotalKmers:  20,
		},
		Results: []similarity.Result{
			{Name: "alpha", Score: 0.91, Shared: 8, UniqueToQuery: 2, UniqueToReference: 1},
			{Name: "beta", Score: 0.40, Shared: 3, UniqueToQuery: 7, UniqueToReference: 5},
		},
		Warnings: []string{"gamma: k mismatch"},
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "name\tsimilarity\tshared_kmers\tunique_to_query\tunique_to_reference" {
		t.Fatalf("bad header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "alpha\t0.910000\t8\t") {
		t.Fatalf("bad row: %q", lines[1])
	}
}

func TestWriteTextCommentsAndTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "# query: 2 records, 20 windows (3 skipped)") {
		t.Fatalf("missing query comment:\n%s", got)
	}
	if !strings.Contains(got, "# warning: gamma: k mismatch") {
		t.Fatalf("missing warning comment:\n%s", got)
	}
	if !strings.Contains(got, "alpha\t0.910000") {
		t.Fatalf("missing result row:\n%s", got)
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	var back Report
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(back.Results) != 2 || back.Results[0].Name != "alpha" {
		t.Fatalf("round trip lost results: %+v", back)
	}
	if back.Query.TotalKmers != 20 {
		t.Fatalf("round trip lost query summary: %+v", back.Query)
	}
}
