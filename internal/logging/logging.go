// internal/logging/logging.go
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options mirrors the shared CLI logging flags.
type Options struct {
	Verbose bool   // debug level
	Quiet   bool   // errors only
	LogFile string // append to a file instead of stderr
}

// New builds the process logger. The returned closer releases the log
// file, if any; callers defer it from the app shell.
func New(stderr io.Writer, o Options) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: false,
		FullTimestamp:    true,
	})

	switch {
	case o.Quiet:
		log.SetLevel(logrus.ErrorLevel)
	case o.Verbose:
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	closer := func() {}
	if o.LogFile != "" {
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		log.SetOutput(f)
		closer = func() { _ = f.Close() }
	}
	return log, closer, nil
}
