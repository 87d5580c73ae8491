// internal/buildapp/app.go
package buildapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"kprof/core/kmer"
	"kprof/core/profile"
	"kprof/internal/appcore"
	"kprof/internal/buildcli"
	"kprof/internal/store"
	"kprof/internal/version"
	"kprof/internal/writers"
)

// RunContext is the kprof-build entry point: count one organism's
// k-mers and save the resulting profile into the repository.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := buildcli.NewFlagSet("kprof-build")
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

	opts, err := buildcli.ParseArgs(fs, argv)
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

	log, closeLog, _, err := appcore.Boot(fs, &opts.Common, stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	defer closeLog()

	if err := kmer.ValidateK(opts.K); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}
	level, err := profile.ParseLevel(opts.Level)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitUsage
	}

	// Progress is drawn on stderr so stdout stays clean for shells.
	progressOut := io.Writer(stderr)
	if opts.Quiet || opts.Verbose {
		progressOut = io.Discard
	}
	progress := mpb.New(mpb.WithOutput(progressOut), mpb.WithWidth(42))
	bar := progress.AddBar(int64(len(opts.SeqFiles)),
		mpb.PrependDecorators(
			decor.Name(opts.Name+": ", decor.WC{W: len(opts.Name) + 2, C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d files", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	p, _, err := appcore.CountAndBuild(parent, log, &opts.Common, opts.Name, level, func(string) {
		bar.Increment()
	})
	bar.Abort(false)
	progress.Wait()
	if err != nil {
		if errors.Is(err, context.Canceled) || parent.Err() != nil {
			return appcore.ExitCanceled
		}
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}

	repo, err := store.Open(opts.Database)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	defer func() { _ = repo.Close() }()

	if err := repo.Save(p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			if opts.SkipExisting {
				log.Warnf("profile %q already exists, skipping", p.Name)
				return appcore.ExitOK
			}
			_, _ = fmt.Fprintf(stderr, "profile %q already exists in %s (use --skip-existing to ignore)\n", p.Name, opts.Database)
			return 1
		}
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	log.WithField("profile", p.Name).Info("profile saved")
	_, _ = fmt.Fprintf(outw, "saved %s (%s, k=%d, %d distinct k-mers)\n", p.Name, p.Level, p.K, len(p.Counts))
	return appcore.ExitOK
}

// Run wires RunContext to a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
