package logging

import (
	"context"
	"log/slog"

	"github.com/rollbar/rollbar-go"
)

// Reporter is the part of *rollbar.Client the handler uses.
type Reporter interface {
	MessageWithExtras(level string, msg string, extras map[string]interface{})
}

// RollbarHandler wraps another handler and also reports ERROR records.
type RollbarHandler struct {
	inner    slog.Handler
	reporter Reporter
	level    slog.Level
	attrs    []slog.Attr
}

func NewRollbarHandler(inner slog.Handler, reporter Reporter) *RollbarHandler {
	return &RollbarHandler{inner: inner, reporter: reporter, level: slog.LevelError}
}

func (h *RollbarHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RollbarHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level < h.level {
		return nil
	}

	extras := make(map[string]interface{}, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		extras[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		extras[a.Key] = a.Value.String()
		return true
	})

	level := rollbar.ERR
	if r.Level > slog.LevelError {
		level = rollbar.CRIT
	}
	h.reporter.MessageWithExtras(level, r.Message, extras)
	return nil
}

func (h *RollbarHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &RollbarHandler{inner: h.inner.WithAttrs(attrs), reporter: h.reporter, level: h.level, attrs: merged}
}

func (h *RollbarHandler) WithGroup(name string) slog.Handler {
	return &RollbarHandler{inner: h.inner.WithGroup(name), reporter: h.reporter, level: h.level, attrs: h.attrs}
}
