// core/counter/counter.go
package counter

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"kprof/core/kmer"
)

// Record is one input sequence handed to the counting pool.
type Record struct {
	ID  string
	Seq []byte
}

// Warning records a per-record problem that did not abort the batch.
type Warning struct {
	RecordID string
	Err      error
}

// Stats summarizes one counting pass.
type Stats struct {
	Records  int
	Windows  int
	Skipped  int // windows suppressed by ambiguous bases
	Warnings []Warning
}

// Options controls a counting pass.
type Options struct {
	K       int
	Workers int  // <=0 means all CPUs
	Strict  bool // abort on the first malformed record instead of warning
}

// Count drains records through a fixed-size worker pool and aggregates
// canonical k-mer occurrences into one Table. Each worker owns a local
// table; the partials are merged in worker order once the channel is
// drained, so the final counts equal a sequential single-threaded count
// regardless of scheduling. Cancellation is cooperative and checked
// between records.
//
// A malformed record (empty sequence) is skipped and recorded as a
// warning unless Strict is set, in which case it aborts the pass.
func Count(ctx context.Context, opts Options, records <-chan Record) (*Table, Stats, error) {
	var stats Stats
	if err := kmer.ValidateK(opts.K); err != nil {
		return nil, stats, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type partial struct {
		table *Table
		stats Stats
		err   error
	}
	parts := make([]partial, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(slot *partial) {
			defer wg.Done()
			tbl, err := NewTable(opts.K)
			if err != nil {
				slot.err = err
				return
			}
			slot.table = tbl
			for {
				select {
				case <-ctx.Done():
					return
				case rec, ok := <-records:
					if !ok {
						return
					}
					if len(rec.Seq) == 0 {
						werr := fmt.Errorf("record %q: empty sequence", rec.ID)
						if opts.Strict {
							slot.err = werr
							return
						}
						slot.stats.Warnings = append(slot.stats.Warnings, Warning{RecordID: rec.ID, Err: werr})
						continue
					}
					st, err := kmer.Scan(rec.Seq, opts.K, func(c kmer.Code) error {
						tbl.Add(c, 1)
						return nil
					})
					if err != nil {
						slot.err = fmt.Errorf("record %q: %w", rec.ID, err)
						return
					}
					slot.stats.Records++
					slot.stats.Windows += st.Windows
					slot.stats.Skipped += st.Skipped
				}
			}
		}(&parts[w])
	}
	wg.Wait()

	total, err := NewTable(opts.K)
	if err != nil {
		return nil, stats, err
	}
	var firstErr error
	for i := range parts {
		p := &parts[i]
		if p.err != nil && firstErr == nil {
			firstErr = p.err
		}
		if p.table != nil {
			if err := total.Merge(p.table); err != nil {
				return nil, stats, err
			}
		}
		stats.Records += p.stats.Records
		stats.Windows += p.stats.Windows
		stats.Skipped += p.stats.Skipped
		stats.Warnings = append(stats.Warnings, p.stats.Warnings...)
	}
	if firstErr != nil {
		return nil, stats, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	return total, stats, nil
}

// CountAll is a convenience wrapper for in-memory batches.
func CountAll(ctx context.Context, opts Options, recs []Record) (*Table, Stats, error) {
	ch := make(chan Record, len(recs))
	for _, r := range recs {
		ch <- r
	}
	close(ch)
	return Count(ctx, opts, ch)
}
