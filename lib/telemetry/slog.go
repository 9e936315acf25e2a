package telemetry

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// NewSlogHandler returns the colored handler used by binaries.
func NewSlogHandler(w io.Writer, verbose bool) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
}

// InitSlog installs the default logger, writing to stderr.
func InitSlog(verbose bool) {
	slog.SetDefault(slog.New(NewSlogHandler(os.Stderr, verbose)))
}
