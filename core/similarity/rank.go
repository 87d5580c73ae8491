// core/similarity/rank.go
package similarity

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"kprof/core/profile"
)

// Warning records a reference that could not participate in a ranking
// pass (k mismatch, mostly) without aborting the pass.
type Warning struct {
	Reference string
	Err       error
}

// Options controls one ranking pass. Thresholds exclude references from
// the result entirely rather than ranking them low.
type Options struct {
	Metric    Metric
	MinScore  float64
	MinShared int
	Workers   int // <=0 means all CPUs
}

// Rank compares query against every reference and returns the passing
// results sorted by score descending, ties broken by larger shared
// count, then by name. Profiles are immutable after construction, so
// the comparisons run in parallel without locking. References with an
// incompatible k are skipped with a warning; only context cancellation
// aborts the pass.
func Rank(ctx context.Context, query *profile.Profile, refs []*profile.Profile, o Options) ([]Result, []Warning, error) {
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*Result, len(refs))
	errs := make([]error, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Compare(query, ref, o.Metric)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	var ranked []Result
	for i, res := range results {
		if errs[i] != nil {
			var ike *IncompatibleKError
			if errors.As(errs[i], &ike) {
				warnings = append(warnings, Warning{Reference: ike.Reference, Err: errs[i]})
				continue
			}
			warnings = append(warnings, Warning{Reference: refs[i].Name, Err: errs[i]})
			continue
		}
		if res.Score < o.MinScore || res.Shared < o.MinShared {
			continue
		}
		ranked = append(ranked, *res)
	}

	sortResults(ranked)
	return ranked, warnings, nil
}

func sortResults(rs []Result) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		if rs[i].Shared != rs[j].Shared {
			return rs[i].Shared > rs[j].Shared
		}
		return rs[i].Name < rs[j].Name
	})
}
