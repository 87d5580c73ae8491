// internal/clibase/common.go
package clibase

import (
	"flag"
	"fmt"

	"kprof/internal/cliutil"
	"kprof/internal/config"
)

// Common holds CLI fields shared by kprof, kprof-build and kprof-db.
type Common struct {
	// Repository
	Database string

	// Counting
	K       int
	Threads int
	Strict  bool

	// Misc
	ConfigPath string
	Quiet      bool
	Verbose    bool
	LogFile    string
	Version    bool

	// Positional inputs after glob expansion.
	SeqFiles []string
}

// Register wires the shared flags onto fs.
func Register(fs *flag.FlagSet, c *Common) {
	fs.StringVar(&c.Database, "database", "profiles.db", "profile database path")
	fs.StringVar(&c.Database, "d", "profiles.db", "alias of --database")

	fs.IntVar(&c.K, "kmer-size", 31, "k-mer size (1..32)")
	fs.IntVar(&c.K, "k", 31, "alias of --kmer-size")
	fs.IntVar(&c.Threads, "threads", 0, "worker threads (0=all CPUs)")
	fs.IntVar(&c.Threads, "t", 0, "alias of --threads")
	fs.BoolVar(&c.Strict, "strict", false, "abort on the first malformed record")

	fs.StringVar(&c.ConfigPath, "config", "", "JSON config file with run defaults")
	fs.BoolVar(&c.Quiet, "quiet", false, "suppress progress and warnings")
	fs.BoolVar(&c.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&c.Verbose, "verbose", false, "debug logging")
	fs.BoolVar(&c.Verbose, "v", false, "alias of --verbose")
	fs.StringVar(&c.LogFile, "log-file", "", "append logs to this file instead of stderr")
	fs.BoolVar(&c.Version, "version", false, "print version and exit")
}

// ApplyConfig fills flag values still at their defaults from a loaded
// config file. Flags always win over file values.
func ApplyConfig(fs *flag.FlagSet, c *Common, f *config.File) {
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if f.Database != "" && !set["database"] && !set["d"] {
		c.Database = f.Database
	}
	if f.K != 0 && !set["kmer-size"] && !set["k"] {
		c.K = f.K
	}
	if f.Threads != 0 && !set["threads"] && !set["t"] {
		c.Threads = f.Threads
	}
	if f.LogFile != "" && !set["log-file"] {
		c.LogFile = f.LogFile
	}
}

// AfterParse expands positional globs into c.SeqFiles.
func AfterParse(c *Common, posArgs []string) error {
	files, err := cliutil.ExpandPositionals(posArgs)
	if err != nil {
		return err
	}
	c.SeqFiles = files
	return nil
}

// RequireInputs rejects a command line with no sequence inputs.
func RequireInputs(c *Common) error {
	if len(c.SeqFiles) == 0 {
		return fmt.Errorf("at least one FASTA/FASTQ input (or '-') is required")
	}
	return nil
}
