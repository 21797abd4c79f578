package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// newLogHandler builds the slog handler every component logs through.
func newLogHandler(w io.Writer, debug, noColor bool) slog.Handler {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: debug,
		TimeFormat:      time.RFC3339,
		Prefix:          "polybridge",
	})

	logger.SetLevel(log.WarnLevel)
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	logger.SetColorProfile(termenv.ANSI256)
	if noColor {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}
