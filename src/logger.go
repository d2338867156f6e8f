package stdc

// Logging for the receive chain.
//
// Lock and sync transitions are logged at info, loop chatter at debug.
// Rejected configuration is a warning.

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var logger = NewLogger(os.Stderr, log.InfoLevel)

// NewLogger creates a logger in the house style.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "stdc",
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})
}

// SetLogger replaces the package logger.  Not safe to call while a
// Demodulator is processing.
func SetLogger(l *log.Logger) {
	logger = l
}

// Logger returns the package logger so commands can share it.
func Logger() *log.Logger {
	return logger
}

/*------------------------------------------------------------------
 *
 * Name:	LogLevelFromVerbosity
 *
 * Purpose:	Map command line -v / -q counts to a level.
 *
 * Inputs:	verbose	- Number of times -v was given.
 *		quiet	- Number of times -q was given.
 *
 *------------------------------------------------------------------*/

func LogLevelFromVerbosity(verbose int, quiet int) log.Level {
	var level = int(log.InfoLevel) - 4*verbose + 4*quiet

	switch {
	case level <= int(log.DebugLevel):
		return log.DebugLevel
	case level >= int(log.ErrorLevel):
		return log.ErrorLevel
	default:
		return log.Level(level)
	}
}
