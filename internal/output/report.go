// internal/output/report.go
package output

import (
	"fmt"
	"io"

	"kprof/core/similarity"
	"kprof/internal/jsonutil"
	"kprof/pkg/api"
)

// QuerySummary describes the sample side of an analysis run.
type QuerySummary struct {
	Files       []string `json:"files"`
	K           int      `json:"k"`
	Metric      string   `json:"metric"`
	Records     int      `json:"records"`
	Windows     int      `json:"windows"`
	Skipped     int      `json:"skipped_windows"`
	UniqueKmers int      `json:"unique_kmers"`
	TotalKmers  uint64   `json:"total_kmers"`
}

// NamedDetail pairs a reference name with its per-k-mer breakdown.
type NamedDetail struct {
	Name   string             `json:"name"`
	Detail *similarity.Detail `json:"detail"`
}

// Report is everything an analysis run hands to the report sink:
// ranked results, summary statistics and per-reference warnings.
type Report struct {
	Query    QuerySummary        `json:"query"`
	Results  []similarity.Result `json:"results"`
	Warnings []string            `json:"warnings,omitempty"`
	Details  []NamedDetail       `json:"details,omitempty"`
}

// topShown caps the per-reference detail rows in text output.
const topShown = 10

// WriteJSON renders the whole report as one JSON document in the
// stable v1 schema.
func WriteJSON(w io.Writer, r *Report) error {
	return jsonutil.EncodePretty(w, toV1(r))
}

func toV1(r *Report) *api.ReportV1 {
	out := &api.ReportV1{
		Query:    api.QueryV1(r.Query),
		Warnings: r.Warnings,
	}
	out.Results = make([]api.ResultV1, 0, len(r.Results))
	for _, res := range r.Results {
		out.Results = append(out.Results, api.ResultV1{
			Name:              res.Name,
			Similarity:        res.Score,
			SharedKmers:       res.Shared,
			UniqueToQuery:     res.UniqueToQuery,
			UniqueToReference: res.UniqueToReference,
		})
	}
	for _, nd := range r.Details {
		out.Details = append(out.Details, detailV1(nd))
	}
	return out
}

func detailV1(nd NamedDetail) api.DetailV1 {
	d := nd.Detail
	v := api.DetailV1{
		Name:          nd.Name,
		MeanFreqDelta: d.MeanFreqDelta,
		MarkerMatches: d.MarkerMatches,
	}
	for _, sk := range d.Shared {
		v.Shared = append(v.Shared, api.SharedKmerV1(sk))
	}
	for _, uk := range d.UniqueToQuery {
		v.UniqueToQuery = append(v.UniqueToQuery, api.UniqueKmerV1(uk))
	}
	for _, uk := range d.UniqueToReference {
		v.UniqueToReference = append(v.UniqueToReference, api.UniqueKmerV1(uk))
	}
	return v
}

// WriteTSV renders only the ranked results as bare TSV (no comments),
// for piping into other tools.
func WriteTSV(w io.Writer, r *Report) error {
	if _, err := fmt.Fprintln(w, "name\tsimilarity\tshared_kmers\tunique_to_query\tunique_to_reference"); err != nil {
		return err
	}
	for _, res := range r.Results {
		if _, err := fmt.Fprintf(w, "%s\t%.6f\t%d\t%d\t%d\n",
			res.Name, res.Score, res.Shared, res.UniqueToQuery, res.UniqueToReference); err != nil {
			return err
		}
	}
	return nil
}

// WriteText renders the TSV table plus commented summary, warnings and
// any per-reference detail sections.
func WriteText(w io.Writer, r *Report) error {
	q := r.Query
	if _, err := fmt.Fprintf(w, "# query: %d records, %d windows (%d skipped), %d unique k-mers, k=%d, metric=%s\n",
		q.Records, q.Windows, q.Skipped, q.UniqueKmers, q.K, q.Metric); err != nil {
		return err
	}
	for _, warn := range r.Warnings {
		if _, err := fmt.Fprintf(w, "# warning: %s\n", warn); err != nil {
			return err
		}
	}
	if err := WriteTSV(w, r); err != nil {
		return err
	}
	for _, nd := range r.Details {
		if err := writeDetail(w, nd); err != nil {
			return err
		}
	}
	return nil
}

func writeDetail(w io.Writer, nd NamedDetail) error {
	d := nd.Detail
	if _, err := fmt.Fprintf(w, "\n# detail: %s\n", nd.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# shared=%d unique_to_query=%d unique_to_reference=%d mean_freq_delta=%.6f marker_matches=%d\n",
		len(d.Shared), len(d.UniqueToQuery), len(d.UniqueToReference), d.MeanFreqDelta, d.MarkerMatches); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "kmer\tquery_freq\tref_freq"); err != nil {
		return err
	}
	shown := d.Shared
	if len(shown) > topShown {
		shown = shown[:topShown]
	}
	for _, sk := range shown {
		if _, err := fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", sk.Kmer, sk.QueryFreq, sk.RefFreq); err != nil {
			return err
		}
	}
	return nil
}
