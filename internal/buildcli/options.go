// internal/buildcli/options.go
package buildcli

import (
	"flag"
	"fmt"
	"io"

	"kprof/internal/clibase"
	"kprof/internal/cliutil"
)

// Options for kprof-build (reference profile construction).
type Options struct {
	clibase.Common

	Name         string
	Level        string
	SkipExisting bool
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "reference profile builder", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s [options] --name e_coli --level species genome.fa[.gz] [more files...]\n", name)

		fmt.Fprintln(out, "\nProfile:")
		fmt.Fprintln(out, "  -n, --name string           Profile name (e.g. \"e_coli\") [required]")
		fmt.Fprintf(out, "  -l, --level string          Taxonomy level: genus | species | strain [%s]\n", def("level"))
		fmt.Fprintf(out, "      --skip-existing         Succeed quietly if the name is already registered [%s]\n", def("skip-existing"))
	})
	return fs
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Name, "name", "", "profile name")
	fs.StringVar(&o.Name, "n", "", "alias of --name")
	fs.StringVar(&o.Level, "level", "species", "taxonomy level")
	fs.StringVar(&o.Level, "l", "species", "alias of --level")
	fs.BoolVar(&o.SkipExisting, "skip-existing", false, "tolerate an existing profile name")

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
	if o.Name == "" {
		return o, fmt.Errorf("--name is required")
	}
	return o, nil
}
