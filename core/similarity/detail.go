// core/similarity/detail.go
package similarity

import (
	"math"
	"sort"

	"kprof/core/kmer"
	"kprof/core/profile"
)

// MarkerFreq is the reference frequency above which a shared k-mer is
// counted as a marker match.
const MarkerFreq = 1e-3

// SharedKmer is one k-mer present in both profiles.
type SharedKmer struct {
	Kmer      string  `json:"kmer"`
	QueryFreq float64 `json:"query_freq"`
	RefFreq   float64 `json:"ref_freq"`
}

// UniqueKmer is one k-mer present in only one of the two profiles.
type UniqueKmer struct {
	Kmer string  `json:"kmer"`
	Freq float64 `json:"freq"`
}

// Detail is a per-k-mer breakdown of one comparison, for reporting.
type Detail struct {
	Shared            []SharedKmer `json:"shared"`
	UniqueToQuery     []UniqueKmer `json:"unique_to_query"`
	UniqueToReference []UniqueKmer `json:"unique_to_reference"`
	MeanFreqDelta     float64      `json:"mean_freq_delta"`
	MarkerMatches     int          `json:"marker_matches"`
}

// CompareDetail breaks one comparison down k-mer by k-mer. Shared
// entries are sorted by query frequency descending so callers can take
// the top N; unique lists are sorted the same way.
func CompareDetail(query, ref *profile.Profile) (*Detail, error) {
	if query.K != ref.K {
		return nil, &IncompatibleKError{Reference: ref.Name, QueryK: query.K, RefK: ref.K}
	}

	d := &Detail{}
	var deltaSum float64
	for c, fq := range query.Freqs {
		if fr, ok := ref.Freqs[c]; ok {
			d.Shared = append(d.Shared, SharedKmer{Kmer: kmer.Decode(c, query.K), QueryFreq: fq, RefFreq: fr})
			deltaSum += math.Abs(fq - fr)
			if fr >= MarkerFreq {
				d.MarkerMatches++
			}
		} else {
			d.UniqueToQuery = append(d.UniqueToQuery, UniqueKmer{Kmer: kmer.Decode(c, query.K), Freq: fq})
		}
	}
	for c, fr := range ref.Freqs {
		if _, ok := query.Freqs[c]; !ok {
			d.UniqueToReference = append(d.UniqueToReference, UniqueKmer{Kmer: kmer.Decode(c, ref.K), Freq: fr})
		}
	}
	if len(d.Shared) > 0 {
		d.MeanFreqDelta = deltaSum / float64(len(d.Shared))
	}

	sort.Slice(d.Shared, func(i, j int) bool {
		if d.Shared[i].QueryFreq != d.Shared[j].QueryFreq {
			return d.Shared[i].QueryFreq > d.Shared[j].QueryFreq
		}
		return d.Shared[i].Kmer < d.Shared[j].Kmer
	})
	sortUnique(d.UniqueToQuery)
	sortUnique(d.UniqueToReference)
	return d, nil
}

func sortUnique(us []UniqueKmer) {
	sort.Slice(us, func(i, j int) bool {
		if us[i].Freq != us[j].Freq {
			return us[i].Freq > us[j].Freq
		}
		return us[i].Kmer < us[j].Kmer
	})
}
