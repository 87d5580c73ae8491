// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"kprof/core/kmer"
	"kprof/core/profile"
	"kprof/core/similarity"
	"kprof/internal/appcore"
	"kprof/internal/cli"
	"kprof/internal/output"
	"kprof/internal/store"
	"kprof/internal/version"
	"kprof/internal/writers"
)

// RunContext is the kprof entry point: count the sample's k-mers,
// rank it against the stored references and emit a report.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("kprof")
	fs.SetOutput(io.Discard)

	usage := func() int {
		fs.SetOutput(outw)
		fs.Usage()
		if err := outw.Flush(); writers.IsBrokenPipe(err) {
			return appcore.ExitOK
		} else if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitIO
		}
		return appcore.ExitOK
	}

	if len(argv) == 0 {
		return usage()
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return usage()
		}
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	if opts.Version {
		_, _ = fmt.Fprintln(outw, version.Version)
		return appcore.ExitOK
	}

	log, closeLog, cfg, err := appcore.Boot(fs, &opts.Common, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	defer closeLog()
	cli.ApplyConfig(fs, &opts, cfg)

	if err := kmer.ValidateK(opts.K); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	level, err := profile.ParseLevel(opts.Level)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	metric, err := similarity.ParseMetric(opts.Metric)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	if _, ok := formatKnown(opts.Output); !ok {
		_, _ = fmt.Fprintf(stderr, "unknown output format %q (want one of %v)\n", opts.Output, writers.Formats())
		return appcore.ExitUsage
	}

	query, stats, err := appcore.CountAndBuild(parent, log, &opts.Common, "sample", level, nil)
	if err != nil {
		if errors.Is(err, context.Canceled) || parent.Err() != nil {
			return appcore.ExitCanceled
		}
		_, _ = fmt.Fprintln(stderr, err)
		if errors.Is(err, profile.ErrEmptyProfile) {
			return opts.NoMatchExitCode
		}
		return appcore.ExitIO
	}

	repo, err := store.Open(opts.Database)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	defer func() { _ = repo.Close() }()

	summaries, err := repo.List(level)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	if len(summaries) == 0 {
		log.Warnf("no %s profiles in %s", level, opts.Database)
	}

	var warnings []string
	refs := make([]*profile.Profile, 0, len(summaries))
	byName := make(map[string]*profile.Profile, len(summaries))
	for _, sum := range summaries {
		ref, err := repo.Load(sum.Name)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", sum.Name, err))
			continue
		}
		refs = append(refs, ref)
		byName[ref.Name] = ref
	}

	results, rankWarns, err := similarity.Rank(parent, query, refs, similarity.Options{
		Metric:    metric,
		MinScore:  opts.MinScore,
		MinShared: opts.MinShared,
		Workers:   opts.Threads,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || parent.Err() != nil {
			return appcore.ExitCanceled
		}
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	for _, w := range rankWarns {
		warnings = append(warnings, fmt.Sprintf("%s: %v", w.Reference, w.Err))
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	report := &output.Report{
		Query: output.QuerySummary{
			Files:       opts.SeqFiles,
			K:           opts.K,
			Metric:      metric.String(),
			Records:     stats.Records,
			Windows:     stats.Windows,
			Skipped:     stats.Skipped,
			UniqueKmers: len(query.Counts),
			TotalKmers:  query.Total,
		},
		Results:  results,
		Warnings: warnings,
	}
	if opts.Detailed {
		for _, res := range results {
			ref, ok := byName[res.Name]
			if !ok {
				continue
			}
			det, err := similarity.CompareDetail(query, ref)
			if err != nil {
				log.WithField("reference", res.Name).Warn(err)
				continue
			}
			report.Details = append(report.Details, output.NamedDetail{Name: res.Name, Detail: det})
		}
	}

	sink := io.Writer(outw)
	var outFile *os.File
	if opts.OutFile != "" {
		outFile, err = os.Create(opts.OutFile)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitIO
		}
		sink = outFile
	}
	werr := writers.Write(opts.Output, sink, report)
	if outFile != nil {
		if cerr := outFile.Close(); werr == nil {
			werr = cerr
		}
	} else if werr == nil {
		werr = outw.Flush()
	}
	if writers.IsBrokenPipe(werr) {
		return appcore.ExitOK
	}
	if werr != nil {
		_, _ = fmt.Fprintln(stderr, werr)
		return appcore.ExitIO
	}

	if len(results) == 0 {
		return opts.NoMatchExitCode
	}
	return appcore.ExitOK
}

func formatKnown(format string) (string, bool) {
	for _, f := range writers.Formats() {
		if f == format {
			return f, true
		}
	}
	return "", false
}

// Run wires RunContext to a background context for tests and callers
// that do not manage signals themselves.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
