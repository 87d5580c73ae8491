// internal/dbcli/options.go
package dbcli

import (
	"flag"
	"fmt"
	"io"

	"kprof/internal/clibase"
	"kprof/internal/cliutil"
)

// Subcommands of kprof-db.
const (
	SubInit     = "init"
	SubList     = "list"
	SubRemove   = "remove"
	SubExport   = "export"
	SubStats    = "stats"
	SubValidate = "validate"
)

// Options for kprof-db (repository management).
type Options struct {
	clibase.Common

	Sub  string   // one of the Sub* constants
	Args []string // subcommand positionals (profile names)

	Level    string // list filter
	Detailed bool   // list: show top k-mers per profile
	Force    bool   // remove: do not require confirmation flag
	OutDir   string // export target directory
	Format   string // export format: tsv | fasta
}

func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	clibase.UsageCommon(fs, name, "profile repository management", func(out io.Writer, def func(string) string) {
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintf(out, "  %s [options] init\n", name)
		fmt.Fprintf(out, "  %s [options] list [--level species] [--detailed]\n", name)
		fmt.Fprintf(out, "  %s [options] remove --force NAME...\n", name)
		fmt.Fprintf(out, "  %s [options] export --out-dir DIR [--format tsv|fasta] [NAME...]\n", name)
		fmt.Fprintf(out, "  %s [options] stats\n", name)
		fmt.Fprintf(out, "  %s [options] validate\n", name)

		fmt.Fprintln(out, "\nSubcommand flags:")
		fmt.Fprintf(out, "  -l, --level string          list: filter by taxonomy level [%s]\n", def("level"))
		fmt.Fprintf(out, "      --detailed              list: include top k-mers per profile [%s]\n", def("detailed"))
		fmt.Fprintf(out, "      --force                 remove: confirm deletion [%s]\n", def("force"))
		fmt.Fprintf(out, "      --out-dir string        export: target directory [%s]\n", def("out-dir"))
		fmt.Fprintf(out, "      --format string         export: tsv | fasta [%s]\n", def("format"))
	})
	return fs
}

func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	var help bool
	clibase.Register(fs, &o.Common)

	fs.StringVar(&o.Level, "level", "", "list filter level")
	fs.StringVar(&o.Level, "l", "", "alias of --level")
	fs.BoolVar(&o.Detailed, "detailed", false, "detailed listing")
	fs.BoolVar(&o.Force, "force", false, "confirm removal")
	fs.StringVar(&o.OutDir, "out-dir", "", "export directory")
	fs.StringVar(&o.Format, "format", "tsv", "export format")

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
	if len(posArgs) == 0 {
		return o, fmt.Errorf("a subcommand is required: init | list | remove | export | stats | validate")
	}
	o.Sub, o.Args = posArgs[0], posArgs[1:]
	switch o.Sub {
	case SubInit, SubList, SubStats, SubValidate:
		if len(o.Args) != 0 {
			return o, fmt.Errorf("%s takes no arguments", o.Sub)
		}
	case SubRemove:
		if len(o.Args) == 0 {
			return o, fmt.Errorf("remove requires at least one profile name")
		}
	case SubExport:
		if o.OutDir == "" {
			return o, fmt.Errorf("export requires --out-dir")
		}
		if o.Format != "tsv" && o.Format != "fasta" {
			return o, fmt.Errorf("unknown export format %q (tsv|fasta)", o.Format)
		}
	default:
		return o, fmt.Errorf("unknown subcommand %q", o.Sub)
	}
	return o, nil
}
