// core/similarity/metric.go
package similarity

import (
	"fmt"
	"math"
	"strings"

	"kprof/core/profile"
)

// Metric names the similarity formula applied to a ranking pass. The
// set is closed; one pass never mixes metrics.
type Metric string

const (
	// Cosine is the default: the cosine of the relative-frequency
	// vectors over the key union (absent keys contribute 0). It is
	// scale-invariant across profiles with different totals.
	Cosine Metric = "cosine"

	// Jaccard ignores frequencies: |intersection| / |union| of key sets.
	Jaccard Metric = "jaccard"

	// Bhattacharyya sums sqrt(fq*fr) over shared keys; 1.0 for
	// identical frequency distributions.
	Bhattacharyya Metric = "bhattacharyya"
)

// ParseMetric resolves a configuration string to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(s) {
	case "", string(Cosine):
		return Cosine, nil
	case string(Jaccard):
		return Jaccard, nil
	case string(Bhattacharyya):
		return Bhattacharyya, nil
	}
	return "", fmt.Errorf("unknown similarity metric %q (cosine|jaccard|bhattacharyya)", s)
}

func (m Metric) String() string { return string(m) }

// score assumes q.K == r.K was already checked.
func (m Metric) score(q, r *profile.Profile, shared, union int) float64 {
	switch m {
	case Jaccard:
		if union == 0 {
			return 0
		}
		return float64(shared) / float64(union)

	case Bhattacharyya:
		var sum float64
		for c, fq := range q.Freqs {
			if fr, ok := r.Freqs[c]; ok {
				sum += math.Sqrt(fq * fr)
			}
		}
		return clamp01(sum)

	default: // Cosine
		var dot, nq, nr float64
		for c, fq := range q.Freqs {
			nq += fq * fq
			if fr, ok := r.Freqs[c]; ok {
				dot += fq * fr
			}
		}
		for _, fr := range r.Freqs {
			nr += fr * fr
		}
		if nq == 0 || nr == 0 {
			return 0
		}
		return clamp01(dot / (math.Sqrt(nq) * math.Sqrt(nr)))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
