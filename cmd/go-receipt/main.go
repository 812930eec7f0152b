package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, _, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Println(Version)
		return
	}

	logger := newLogger(os.Stderr, flags.quiet, flags.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	if err := run(flags, logger); err != nil {
		logger.Error(err.Error())
		os.Exit(exitCodeFor(err))
	}
}

// newLogger builds the CLI logger. Quiet wins over verbose.
func newLogger(w *os.File, quiet, verbose bool) *log.Logger {
	level := log.InfoLevel
	switch {
	case quiet:
		level = log.ErrorLevel
	case verbose:
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
