// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rollbar/rollbar-go"
)

type Options struct {
	Level        string
	Env          string
	RollbarToken string
	Output       io.Writer
}

// ParseLevel maps LOG_LEVEL values onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the default logger: text output in development, JSON in
// production, with ERROR records forwarded to Rollbar when a token is set.
// The returned func flushes pending reports.
func Setup(opts Options) (*slog.Logger, func()) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	if opts.Env == "production" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}

	flush := func() {}
	if opts.RollbarToken != "" {
		host, _ := os.Hostname()
		client := rollbar.NewAsync(opts.RollbarToken, opts.Env, "", host, "")
		handler = NewRollbarHandler(handler, client)
		flush = func() { _ = client.Close() }
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, flush
}
