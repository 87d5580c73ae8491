// core/similarity/compare.go
package similarity

import (
	"fmt"

	"kprof/core/profile"
)

// Result is the outcome of one query-vs-reference comparison.
type Result struct {
	Name              string  `json:"name"`
	Score             float64 `json:"similarity"`
	Shared            int     `json:"shared_kmers"`
	UniqueToQuery     int     `json:"unique_to_query"`
	UniqueToReference int     `json:"unique_to_reference"`
}

// IncompatibleKError reports a comparison attempted across differing
// k-mer sizes. Such a comparison is meaningless and is refused, never
// coerced.
type IncompatibleKError struct {
	Reference string
	QueryK    int
	RefK      int
}

func (e *IncompatibleKError) Error() string {
	return fmt.Sprintf("profile %q: incompatible k (query %d, reference %d)", e.Reference, e.QueryK, e.RefK)
}

// Compare scores query against one reference profile. Both profiles
// are read-only here, so concurrent calls over the same query are safe.
func Compare(query, ref *profile.Profile, m Metric) (Result, error) {
	if query.K != ref.K {
		return Result{}, &IncompatibleKError{Reference: ref.Name, QueryK: query.K, RefK: ref.K}
	}

	shared := 0
	for c := range query.Freqs {
		if _, ok := ref.Freqs[c]; ok {
			shared++
		}
	}
	uniqQ := len(query.Freqs) - shared
	uniqR := len(ref.Freqs) - shared
	union := shared + uniqQ + uniqR

	return Result{
		Name:              ref.Name,
		Score:             m.score(query, ref, shared, union),
		Shared:            shared,
		UniqueToQuery:     uniqQ,
		UniqueToReference: uniqR,
	}, nil
}
