// internal/cli/options.go
package cli

import (
	"flag"
	"fmt"
	"io"

	"kprof/internal/clibase"
	"kprof/internal/cliutil"
	"kprof/internal/config"
)

// Options for kprof (sample analysis).
type Options struct {
	clibase.Common

	Level     string
	Metric    string
	MinScore  float64
	MinShared int
	Detailed  bool

	Output          string // text|tsv|json
	OutFile         string // "" = stdout
	NoMatchExitCode int
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "k-mer fingerprint analysis", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s [options] sample.fastq[.gz] [more files...]\n", name)

		fmt.Fprintln(out, "\nAnalysis:")
		fmt.Fprintf(out, "  -l, --level string          Taxonomy level: genus | species | strain [%s]\n", def("level"))
		fmt.Fprintf(out, "      --metric string         Similarity metric: cosine | jaccard | bhattacharyya [%s]\n", def("metric"))
		fmt.Fprintf(out, "      --min-similarity float  Exclude references scoring below this [%s]\n", def("min-similarity"))
		fmt.Fprintf(out, "      --min-shared int        Exclude references sharing fewer k-mers [%s]\n", def("min-shared"))
		fmt.Fprintf(out, "      --detailed              Per-reference k-mer breakdown [%s]\n", def("detailed"))

		fmt.Fprintln(out, "\nOutput:")
		fmt.Fprintf(out, "  -o, --output string         Format: text | tsv | json [%s]\n", def("output"))
		fmt.Fprintf(out, "      --out string            Write the report to a file instead of stdout [%s]\n", def("out"))
		fmt.Fprintf(out, "      --no-match-exit-code int  Exit code when nothing passes the thresholds [%s]\n", def("no-match-exit-code"))
	})
	return fs
}

// ApplyConfig fills analysis flags still at their defaults from a
// loaded config file; clibase.ApplyConfig covers the shared fields.
// Flags always win over file values.
func ApplyConfig(fs *flag.FlagSet, o *Options, f *config.File) {
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if f.Metric != "" && !set["metric"] {
		o.Metric = f.Metric
	}
	if f.MinSimilarity != 0 && !set["min-similarity"] {
		o.MinScore = f.MinSimilarity
	}
	if f.MinShared != 0 && !set["min-shared"] {
		o.MinShared = f.MinShared
	}
}

// ParseArgs parses argv into Options; the returned error may be
// flag.ErrHelp.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Level, "level", "species", "taxonomy level filter")
	fs.StringVar(&o.Level, "l", "species", "alias of --level")
	fs.StringVar(&o.Metric, "metric", "cosine", "similarity metric")
	fs.Float64Var(&o.MinScore, "min-similarity", 0.0, "minimum similarity score")
	fs.IntVar(&o.MinShared, "min-shared", 0, "minimum shared k-mer count")
	fs.BoolVar(&o.Detailed, "detailed", false, "include per-reference detail")

	fs.StringVar(&o.Output, "output", "text", "output format")
	fs.StringVar(&o.Output, "o", "text", "alias of --output")
	fs.StringVar(&o.OutFile, "out", "", "output file")
	fs.IntVar(&o.NoMatchExitCode, "no-match-exit-code", 1, "exit code when no reference passes")

	fs.BoolVar(&help, "h", false, "show help")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}
	if help {
		return o, flag.ErrHelp
	}
	if o.Version {
		return o, nil
	}
	if err := clibase.AfterParse(&o.Common, posArgs); err != nil {
		return o, err
	}
	if err := clibase.RequireInputs(&o.Common); err != nil {
		return o, err
	}
	return o, nil
}
