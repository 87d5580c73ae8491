// internal/dbapp/app.go
package dbapp

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"kprof/core/kmer"
	"kprof/core/profile"
	"kprof/internal/appcore"
	"kprof/internal/dbcli"
	"kprof/internal/store"
	"kprof/internal/version"
	"kprof/internal/writers"
)

// listTop caps the per-profile k-mer rows shown by `list --detailed`.
const listTop = 5

// RunContext is the kprof-db entry point: repository housekeeping
// (init, list, remove, export, stats, validate).
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := dbcli.NewFlagSet("kprof-db")
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

	opts, err := dbcli.ParseArgs(fs, argv)
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

	repo, err := store.Open(opts.Database)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	defer func() { _ = repo.Close() }()

	var code int
	switch opts.Sub {
	case dbcli.SubInit:
		// Open already created the schema.
		_, _ = fmt.Fprintf(outw, "initialized %s\n", opts.Database)
	case dbcli.SubList:
		code = runList(outw, stderr, repo, &opts)
	case dbcli.SubRemove:
		code = runRemove(outw, stderr, log, repo, &opts)
	case dbcli.SubExport:
		code = runExport(outw, stderr, log, repo, &opts)
	case dbcli.SubStats:
		code = runStats(outw, stderr, repo, opts.Database)
	case dbcli.SubValidate:
		code = runValidate(outw, stderr, repo)
	}
	if err := outw.Flush(); writers.IsBrokenPipe(err) {
		return appcore.ExitOK
	} else if err != nil && code == 0 {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	return code
}

func runList(out, stderr io.Writer, repo *store.Store, opts *dbcli.Options) int {
	var level profile.Level
	if opts.Level != "" {
		var err error
		level, err = profile.ParseLevel(opts.Level)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitUsage
		}
	}
	sums, err := repo.List(level)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	_, _ = fmt.Fprintln(out, "name\tlevel\tk\ttotal_kmers\tcreated_at")
	for _, s := range sums {
		_, _ = fmt.Fprintf(out, "%s\t%s\t%d\t%d\t%s\n",
			s.Name, s.Level, s.K, s.Total, s.CreatedAt.Format("2006-01-02 15:04:05"))
		if !opts.Detailed {
			continue
		}
		p, err := repo.Load(s.Name)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitIO
		}
		for _, tk := range topKmers(p, listTop) {
			_, _ = fmt.Fprintf(out, "  %s\t%d\t%.6f\n", kmer.Decode(tk.code, p.K), tk.count, tk.freq)
		}
	}
	return appcore.ExitOK
}

func runRemove(out, stderr io.Writer, log *logrus.Logger, repo *store.Store, opts *dbcli.Options) int {
	if !opts.Force {
		_, _ = fmt.Fprintln(stderr, "remove is destructive, pass --force to confirm")
		return appcore.ExitUsage
	}
	for _, name := range opts.Args {
		found, err := repo.Remove(name)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitIO
		}
		if !found {
			log.Warnf("no profile named %q", name)
			continue
		}
		_, _ = fmt.Fprintf(out, "removed %s\n", name)
	}
	return appcore.ExitOK
}

func runExport(out, stderr io.Writer, log *logrus.Logger, repo *store.Store, opts *dbcli.Options) int {
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	names := opts.Args
	if len(names) == 0 {
		sums, err := repo.List("")
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitIO
		}
		for _, s := range sums {
			names = append(names, s.Name)
		}
	}
	for _, name := range names {
		p, err := repo.Load(name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warnf("no profile named %q", name)
				continue
			}
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitIO
		}
		path := filepath.Join(opts.OutDir, fmt.Sprintf("%s.%s", name, exportExt(opts.Format)))
		if err := exportProfile(path, p, opts.Format); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return appcore.ExitIO
		}
		_, _ = fmt.Fprintf(out, "exported %s -> %s\n", name, path)
	}
	return appcore.ExitOK
}

func exportExt(format string) string {
	if format == "fasta" {
		return "fasta"
	}
	return "tsv"
}

func exportProfile(path string, p *profile.Profile, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if format == "fasta" {
		for i, tk := range topKmers(p, len(p.Counts)) {
			_, _ = fmt.Fprintf(w, ">%s_%d count=%d freq=%.6g\n%s\n", p.Name, i+1, tk.count, tk.freq, kmer.Decode(tk.code, p.K))
		}
	} else {
		_, _ = fmt.Fprintln(w, "kmer\tcount\tfrequency")
		for _, tk := range topKmers(p, len(p.Counts)) {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%.6g\n", kmer.Decode(tk.code, p.K), tk.count, tk.freq)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func runStats(out, stderr io.Writer, repo *store.Store, path string) int {
	st, err := repo.Stats()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	_, _ = fmt.Fprintf(out, "database: %s\n", path)
	_, _ = fmt.Fprintf(out, "profiles: %s\n", humanize.Comma(int64(st.Profiles)))
	_, _ = fmt.Fprintf(out, "k-mer rows: %s\n", humanize.Comma(int64(st.KmerRows)))
	for _, lc := range st.ByLevel {
		_, _ = fmt.Fprintf(out, "  %s: %s\n", lc.Level, humanize.Comma(int64(lc.Count)))
	}
	return appcore.ExitOK
}

func runValidate(out, stderr io.Writer, repo *store.Store) int {
	rep, err := repo.Validate()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	for _, w := range rep.Warnings {
		_, _ = fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, e := range rep.Errors {
		_, _ = fmt.Fprintf(out, "error: %s\n", e)
	}
	if len(rep.Errors) > 0 {
		_, _ = fmt.Fprintf(out, "%d error(s) found\n", len(rep.Errors))
		return 1
	}
	_, _ = fmt.Fprintln(out, "ok")
	return appcore.ExitOK
}

type topKmer struct {
	code  kmer.Code
	count uint64
	freq  float64
}

// topKmers returns up to n k-mers sorted by frequency descending, ties
// broken by code for stable output.
func topKmers(p *profile.Profile, n int) []topKmer {
	all := make([]topKmer, 0, len(p.Counts))
	for c, cnt := range p.Counts {
		all = append(all, topKmer{code: c, count: cnt, freq: p.Freqs[c]})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].freq != all[j].freq {
			return all[i].freq > all[j].freq
		}
		return all[i].code < all[j].code
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Run wires RunContext to a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
