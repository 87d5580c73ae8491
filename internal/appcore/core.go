// internal/appcore/core.go
package appcore

import (
	"context"
	"flag"
	"io"

	"github.com/sirupsen/logrus"

	"kprof/core/counter"
	"kprof/core/profile"
	"kprof/internal/clibase"
	"kprof/internal/config"
	"kprof/internal/logging"
	"kprof/internal/pipeline"
)

// Shared process exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = 130
)

// Boot loads the optional config file, folds the shared fields into
// the parsed flags and constructs the process logger. The config is
// returned so callers can fold in their tool-specific fields too; the
// closer releases the log file.
func Boot(fs *flag.FlagSet, c *clibase.Common, stderr io.Writer) (*logrus.Logger, func(), *config.File, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, nil, nil, err
	}
	clibase.ApplyConfig(fs, c, cfg)
	log, closer, err := logging.New(stderr, logging.Options{
		Verbose: c.Verbose,
		Quiet:   c.Quiet,
		LogFile: c.LogFile,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return log, closer, cfg, nil
}

// CountAndBuild runs the counting pipeline over c.SeqFiles and freezes
// the aggregate into a profile.
func CountAndBuild(
	ctx context.Context,
	log *logrus.Logger,
	c *clibase.Common,
	name string,
	level profile.Level,
	onFile func(string),
) (*profile.Profile, counter.Stats, error) {
	tbl, stats, err := pipeline.CountFiles(ctx, log, pipeline.Options{
		K:       c.K,
		Threads: c.Threads,
		Strict:  c.Strict,
	}, c.SeqFiles, onFile)
	if err != nil {
		return nil, stats, err
	}
	LogCountStats(log, stats, tbl.Len())
	p, err := profile.Build(name, level, c.K, tbl)
	if err != nil {
		return nil, stats, err
	}
	return p, stats, nil
}

// LogCountStats reports one counting pass at info level, warnings
// individually at warn level.
func LogCountStats(log *logrus.Logger, stats counter.Stats, unique int) {
	log.WithFields(logrus.Fields{
		"records": stats.Records,
		"windows": stats.Windows,
		"skipped": stats.Skipped,
		"unique":  unique,
	}).Info("counting pass complete")
	for _, w := range stats.Warnings {
		log.WithField("record", w.RecordID).Warn(w.Err)
	}
}
