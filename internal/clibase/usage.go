// internal/clibase/usage.go
package clibase

import (
	"flag"
	"fmt"
	"io"

	"kprof/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs. extra prints
// tool-specific sections before the shared blocks.
func UsageCommon(fs *flag.FlagSet, name, oneLiner string, extra func(out io.Writer, def func(string) string)) {
	fs.Usage = func() {
		out := fs.Output()
		def := func(flagName string) string {
			if f := fs.Lookup(flagName); f != nil {
				return f.DefValue
			}
			return ""
		}

		fmt.Fprintf(out, "%s – %s\n", name, oneLiner)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)

		if extra != nil {
			extra(out, def)
		}

		fmt.Fprintln(out, "\nRepository:")
		fmt.Fprintf(out, "  -d, --database string       Profile database path [%s]\n", def("database"))

		fmt.Fprintln(out, "\nCounting:")
		fmt.Fprintf(out, "  -k, --kmer-size int         K-mer size, 1..32 [%s]\n", def("kmer-size"))
		fmt.Fprintf(out, "  -t, --threads int           Worker threads (0=all CPUs) [%s]\n", def("threads"))
		fmt.Fprintf(out, "      --strict                Abort on the first malformed record [%s]\n", def("strict"))

		fmt.Fprintln(out, "\nMisc:")
		fmt.Fprintf(out, "      --config string         JSON config with run defaults [%s]\n", def("config"))
		fmt.Fprintf(out, "  -q, --quiet                 Suppress progress and warnings [%s]\n", def("quiet"))
		fmt.Fprintf(out, "  -v, --verbose               Debug logging [%s]\n", def("verbose"))
		fmt.Fprintf(out, "      --log-file string       Append logs to a file [%s]\n", def("log-file"))
		fmt.Fprintln(out, "      --version               Print version and exit")
		fmt.Fprintln(out, "  -h                          Show this help")
	}
}
