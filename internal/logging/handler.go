// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the application logger and provides a slog
// handler that masks personal data submitted through the contact form.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// DefaultRedactedKeys are attribute keys whose values are masked.
var DefaultRedactedKeys = []string{"email", "phone", "name"}

// RedactHandler is a slog.Handler that wraps another handler and masks
// the values of sensitive attributes before forwarding the record.
type RedactHandler struct {
	inner slog.Handler
	keys  map[string]bool
}

// NewRedactHandler creates a RedactHandler masking the given keys. With no
// keys, DefaultRedactedKeys are used.
func NewRedactHandler(inner slog.Handler, keys ...string) *RedactHandler {
	if len(keys) == 0 {
		keys = DefaultRedactedKeys
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = true
	}
	return &RedactHandler{inner: inner, keys: set}
}

// Enabled implements slog.Handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.redact(a)
	}
	return &RedactHandler{inner: h.inner.WithAttrs(masked), keys: h.keys}
}

// WithGroup implements slog.Handler.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{inner: h.inner.WithGroup(name), keys: h.keys}
}

func (h *RedactHandler) redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = h.redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}
	if h.keys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Mask(a.Value.Resolve().String()))
	}
	return a
}

// Mask hides all but the first character of s, and keeps the domain of
// an email address: "ada@example.com" becomes "a***@example.com".
func Mask(s string) string {
	if s == "" {
		return ""
	}
	local, domain, isEmail := strings.Cut(s, "@")
	masked := "***"
	if r := []rune(local); len(r) > 1 {
		masked = string(r[0]) + "***"
	}
	if isEmail {
		return masked + "@" + domain
	}
	return masked
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// New creates the application logger: a text handler wrapped in a
// RedactHandler.
func New(w io.Writer, level string) *slog.Logger {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(NewRedactHandler(text))
}
