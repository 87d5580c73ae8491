// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"

	"kprof/core/counter"
	"kprof/core/fastx"
)

// Options controls one counting pass over sequence files.
type Options struct {
	K       int
	Threads int  // <=0 means all CPUs
	Strict  bool // abort on the first unreadable file or malformed record
}

// CountFiles streams every record of seqFiles through a fixed-size
// counting pool and returns the aggregated frequency table. The feeder
// goroutine and the pool share only the records channel; cancellation
// unblocks both. An unreadable file is skipped with a warning unless
// Strict is set. onFile, if non-nil, is called before each file is
// opened (progress reporting).
func CountFiles(
	ctx context.Context,
	log *logrus.Logger,
	o Options,
	seqFiles []string,
	onFile func(path string),
) (*counter.Table, counter.Stats, error) {
	threads := o.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	records := make(chan counter.Record, threads*2)
	var (
		feedErr   error
		fileWarns []counter.Warning
		feedDone  = make(chan struct{})
	)
	go func() {
		defer close(feedDone)
		defer close(records)
		for _, path := range seqFiles {
			if onFile != nil {
				onFile(path)
			}
			log.WithField("file", path).Debug("reading sequences")
			err := fastx.ScanPath(ctx, path, func(rec fastx.Record) error {
				select {
				case records <- counter.Record{ID: rec.ID, Seq: rec.Seq}:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if o.Strict {
					feedErr = err
					return
				}
				log.WithField("file", path).Warnf("skipped: %v", err)
				fileWarns = append(fileWarns, counter.Warning{RecordID: path, Err: err})
			}
		}
	}()

	tbl, stats, err := counter.Count(ctx, counter.Options{K: o.K, Workers: threads, Strict: o.Strict}, records)

	// Unblock the feeder if the pool bailed out early, then wait so the
	// feeder's error and warnings are safe to read.
	cancel()
	<-feedDone

	stats.Warnings = append(stats.Warnings, fileWarns...)
	if err != nil {
		return nil, stats, err
	}
	if feedErr != nil {
		return nil, stats, feedErr
	}
	return tbl, stats, nil
}
