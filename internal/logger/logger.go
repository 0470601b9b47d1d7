package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a console logger writing to w. Debug output is enabled when verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()
}

// Setup builds the stderr logger and installs it as the global zerolog logger
func Setup(verbose bool) zerolog.Logger {
	l := New(os.Stderr, verbose)
	log.Logger = l
	return l
}

// ForChain returns a child logger that tags every event with the chain name
func ForChain(l zerolog.Logger, chain string) zerolog.Logger {
	return l.With().Str("chain", chain).Logger()
}
