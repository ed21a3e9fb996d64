// Package cmd implements the subcommands of the command-line interface:
// render, check, and symbols. Each command is a kong-compatible struct whose
// Run method receives the process context.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// loggerKey is used to store a [*slog.Logger] value in [context.Context].
type loggerKey struct{}

// WithLogger returns a new context.Context containing the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom retrieves the logger stored in ctx by [WithLogger]. A context
// without a logger yields a discarding logger, so commands can log
// unconditionally.
func LoggerFrom(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return logger
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSource opens the named configuration source, with "-" meaning stdin.
// The returned closer is a no-op for stdin.
func openSource(path string) (r io.Reader, close func() error, err error) {
	if path == stdinSource {
		return os.Stdin, func() error { return nil }, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return file, file.Close, nil
}
