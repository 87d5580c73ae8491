// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON schema for analysis reports.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	Query    QueryV1    `json:"query"`
	Results  []ResultV1 `json:"results"`
	Warnings []string   `json:"warnings,omitempty"`
	Details  []DetailV1 `json:"details,omitempty"`
}

// QueryV1 summarizes the sample side of a run.
type QueryV1 struct {
	Files       []string `json:"files"`
	K           int      `json:"k"`
	Metric      string   `json:"metric"`
	Records     int      `json:"records"`
	Windows     int      `json:"windows"`
	Skipped     int      `json:"skipped_windows"`
	UniqueKmers int      `json:"unique_kmers"`
	TotalKmers  uint64   `json:"total_kmers"`
}

// ResultV1 is one ranked query-vs-reference row.
type ResultV1 struct {
	Name              string  `json:"name"`
	Similarity        float64 `json:"similarity"`
	SharedKmers       int     `json:"shared_kmers"`
	UniqueToQuery     int     `json:"unique_to_query"`
	UniqueToReference int     `json:"unique_to_reference"`
}

// SharedKmerV1 is one k-mer present in both profiles.
type SharedKmerV1 struct {
	Kmer      string  `json:"kmer"`
	QueryFreq float64 `json:"query_freq"`
	RefFreq   float64 `json:"ref_freq"`
}

// UniqueKmerV1 is one k-mer present in only one profile.
type UniqueKmerV1 struct {
	Kmer string  `json:"kmer"`
	Freq float64 `json:"freq"`
}

// DetailV1 is the per-reference k-mer breakdown.
type DetailV1 struct {
	Name              string         `json:"name"`
	Shared            []SharedKmerV1 `json:"shared"`
	UniqueToQuery     []UniqueKmerV1 `json:"unique_to_query"`
	UniqueToReference []UniqueKmerV1 `json:"unique_to_reference"`
	MeanFreqDelta     float64        `json:"mean_freq_delta"`
	MarkerMatches     int            `json:"marker_matches"`
}
